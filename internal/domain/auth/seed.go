package auth

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/farmsight/pkg/errors"
)

// SeedDemoAccounts creates the given accounts, skipping names already taken.
// It returns how many accounts were inserted.
func SeedDemoAccounts(ctx context.Context, repo Repository, accounts []DemoAccount, logger *slog.Logger) (int, error) {
	s := &service{repo: repo, logger: logger.With("component", "auth.seed")}
	created := 0
	for _, account := range accounts {
		name, err := normalizeFarmerName(account.FarmerName)
		if err != nil {
			return created, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
		if _, err := s.createUser(ctx, name, account.Password); err != nil {
			if apperrors.IsCode(err, apperrors.CodeNameExists) {
				continue
			}
			return created, err
		}
		created++
	}
	s.logger.Info("demo accounts seeded", "created", created, "requested", len(accounts))
	return created, nil
}
