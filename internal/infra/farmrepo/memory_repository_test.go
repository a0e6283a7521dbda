package farmrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmsight/internal/domain/farm"
)

func TestMemoryRepository_ScopesByOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, farm.Farm{ID: "a", OwnerID: 1, Name: "North", CreatedAt: created})
	require.NoError(t, err)
	_, err = repo.Create(ctx, farm.Farm{ID: "b", OwnerID: 2, Name: "South", CreatedAt: created})
	require.NoError(t, err)

	owned, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, "North", owned[0].Name)

	_, ok, err := repo.Get(ctx, 1, "b")
	require.NoError(t, err)
	require.False(t, ok)

	got, ok, err := repo.Get(ctx, 2, "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "South", got.Name)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, farm.Farm{ID: "a", OwnerID: 1})
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, 2, "a")
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = repo.Delete(ctx, 1, "a")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Delete(ctx, 1, "a")
	require.NoError(t, err)
	require.False(t, removed)

	owned, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, owned)
}
