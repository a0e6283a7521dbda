package farmrepo

import (
	"context"
	"sync"

	"github.com/yanqian/farmsight/internal/domain/farm"
)

// MemoryRepository keeps farms in process, keyed by owner.
type MemoryRepository struct {
	mu    sync.RWMutex
	farms map[int64]map[string]farm.Farm
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{farms: make(map[int64]map[string]farm.Farm)}
}

func (r *MemoryRepository) Create(_ context.Context, f farm.Farm) (farm.Farm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.farms[f.OwnerID]
	if !ok {
		owned = make(map[string]farm.Farm)
		r.farms[f.OwnerID] = owned
	}
	owned[f.ID] = f
	return f, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID int64) ([]farm.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned := r.farms[ownerID]
	out := make([]farm.Farm, 0, len(owned))
	for _, f := range owned {
		out = append(out, f)
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID int64, id string) (farm.Farm, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.farms[ownerID][id]
	return f, ok, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID int64, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.farms[ownerID]
	if !ok {
		return false, nil
	}
	if _, ok := owned[id]; !ok {
		return false, nil
	}
	delete(owned, id)
	if len(owned) == 0 {
		delete(r.farms, ownerID)
	}
	return true, nil
}

var _ farm.Repository = (*MemoryRepository)(nil)
