package userrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/farmsight/internal/domain/auth"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     map[int64]auth.User
	nameIndex map[string]int64
	seq       int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[int64]auth.User),
		nameIndex: make(map[string]int64),
	}
}

// Create stores the user record. Farmer names are unique case-insensitively.
func (r *MemoryRepository) Create(_ context.Context, farmerName, passwordHash string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := nameKey(farmerName)
	if _, exists := r.nameIndex[key]; exists {
		return auth.User{}, auth.ErrNameExists
	}
	r.seq++
	user := auth.User{
		ID:           r.seq,
		FarmerName:   farmerName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user
	r.nameIndex[key] = user.ID
	return user, nil
}

// GetByName returns a user by farmer name.
func (r *MemoryRepository) GetByName(_ context.Context, farmerName string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.nameIndex[nameKey(farmerName)]; ok {
		return r.users[id], true, nil
	}
	return auth.User{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ auth.Repository = (*MemoryRepository)(nil)
