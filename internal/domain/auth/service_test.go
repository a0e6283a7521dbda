package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/farmsight/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	view, err := svc.Register(context.Background(), RegisterRequest{
		FarmerName:      "  farmer_anu ",
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
	})
	require.NoError(t, err)
	require.Equal(t, "farmer_anu", view.FarmerName)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		FarmerName: "farmer_anu",
		Password:   "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.FarmerName, resp.User.FarmerName)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, "farmer_anu", claims.FarmerName)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, resp.User.FarmerName, refreshed.User.FarmerName)

	profile, err := svc.Profile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, view, profile)
}

func TestService_DuplicateName(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FarmerName: "Rakesh Kumar", Password: "pass1234", ConfirmPassword: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		FarmerName: "Rakesh Kumar", Password: "pass12345", ConfirmPassword: "pass12345",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNameExists))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	cases := map[string]RegisterRequest{
		"empty name":         {FarmerName: "  ", Password: "pass1234", ConfirmPassword: "pass1234"},
		"short name":         {FarmerName: "ab", Password: "pass1234", ConfirmPassword: "pass1234"},
		"bad characters":     {FarmerName: "farmer<script>", Password: "pass1234", ConfirmPassword: "pass1234"},
		"short password":     {FarmerName: "farmer_lee", Password: "short", ConfirmPassword: "short"},
		"mismatched confirm": {FarmerName: "farmer_lee", Password: "pass1234", ConfirmPassword: "pass4321"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		})
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{
		FarmerName: "farmer_maya", Password: "pass1234", ConfirmPassword: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{FarmerName: "farmer_maya", Password: "wrongpass"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{FarmerName: "nobody", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{FarmerName: "", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestService_TokenTypesAreNotInterchangeable(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{
		FarmerName: "farmer_john", Password: "pass1234", ConfirmPassword: "pass1234",
	})
	require.NoError(t, err)
	resp, err := svc.Login(context.Background(), LoginRequest{FarmerName: "farmer_john", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.Refresh(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.ValidateToken(context.Background(), "not-a-token")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	other := NewService(Config{Secret: "other-secret", TokenTTL: time.Hour, RefreshTokenTTL: time.Hour}, newMemoryRepo(), newTestLogger())
	_, err = other.ValidateToken(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestSeedDemoAccounts_SkipsExisting(t *testing.T) {
	repo := newMemoryRepo()
	accounts := []DemoAccount{
		{FarmerName: "farmer_anu", Password: "TestPass@123"},
		{FarmerName: "farmer_lee", Password: "TestPass@123"},
	}

	created, err := SeedDemoAccounts(context.Background(), repo, accounts, newTestLogger())
	require.NoError(t, err)
	require.Equal(t, 2, created)

	created, err = SeedDemoAccounts(context.Background(), repo, accounts, newTestLogger())
	require.NoError(t, err)
	require.Zero(t, created)
	require.Len(t, repo.users, 2)

	svc := newTestService(repo)
	_, err = svc.Login(context.Background(), LoginRequest{FarmerName: "farmer_lee", Password: "TestPass@123"})
	require.NoError(t, err)
}

func TestDemoAccounts_AreValid(t *testing.T) {
	for _, account := range DemoAccounts {
		_, err := normalizeFarmerName(account.FarmerName)
		require.NoError(t, err, account.FarmerName)
		require.NoError(t, validatePassword(account.Password))
	}
}

func newTestService(repo Repository) Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, farmerName, passwordHash string) (User, error) {
	for _, user := range m.users {
		if user.FarmerName == farmerName {
			return User{}, ErrNameExists
		}
	}
	m.seq++
	user := User{
		ID:           m.seq,
		FarmerName:   farmerName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByName(_ context.Context, farmerName string) (User, bool, error) {
	for _, user := range m.users {
		if user.FarmerName == farmerName {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}
