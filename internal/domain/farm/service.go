package farm

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/farmsight/pkg/errors"
	"github.com/yanqian/farmsight/pkg/util"
)

// Service manages a farmer's farms.
type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (Farm, error)
	List(ctx context.Context, ownerID int64) ([]Farm, error)
	Get(ctx context.Context, ownerID int64, id string) (Farm, error)
	Delete(ctx context.Context, ownerID int64, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs a farm Service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "farm.service"),
		now:    util.NowUTC,
		newID:  uuid.NewString,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (Farm, error) {
	if ownerID <= 0 {
		return Farm{}, apperrors.Wrap(apperrors.CodeInvalidInput, "owner is required", nil)
	}
	now := s.now()
	v, err := validateCreate(req, now)
	if err != nil {
		return Farm{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	farm, err := s.repo.Create(ctx, Farm{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Name:      v.name,
		Bounds:    v.bounds,
		StartDate: v.start,
		EndDate:   v.end,
		CreatedAt: now,
	})
	if err != nil {
		return Farm{}, apperrors.Wrap(apperrors.CodeFarm, "failed to create farm", err)
	}
	s.logger.Info("farm created", "farm_id", farm.ID, "owner_id", ownerID)
	return farm, nil
}

func (s *service) List(ctx context.Context, ownerID int64) ([]Farm, error) {
	farms, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFarm, "failed to list farms", err)
	}
	sort.SliceStable(farms, func(i, j int) bool {
		if farms[i].CreatedAt.Equal(farms[j].CreatedAt) {
			return farms[i].ID < farms[j].ID
		}
		return farms[i].CreatedAt.Before(farms[j].CreatedAt)
	})
	return farms, nil
}

func (s *service) Get(ctx context.Context, ownerID int64, id string) (Farm, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Farm{}, apperrors.Wrap(apperrors.CodeInvalidInput, "farm id is required", nil)
	}
	farm, found, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Farm{}, apperrors.Wrap(apperrors.CodeFarm, "failed to load farm", err)
	}
	if !found {
		return Farm{}, apperrors.Wrap(apperrors.CodeNotFound, "farm not found", ErrNotFound)
	}
	return farm, nil
}

func (s *service) Delete(ctx context.Context, ownerID int64, id string) error {
	removed, err := s.repo.Delete(ctx, ownerID, strings.TrimSpace(id))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFarm, "failed to delete farm", err)
	}
	if !removed {
		return apperrors.Wrap(apperrors.CodeNotFound, "farm not found", ErrNotFound)
	}
	s.logger.Info("farm deleted", "farm_id", id, "owner_id", ownerID)
	return nil
}
