package farm

import (
	"context"
	"errors"
)

// ErrNotFound indicates the farm does not exist for that owner.
var ErrNotFound = errors.New("farm not found")

// Repository abstracts farm persistence. Farms are always scoped to an owner.
type Repository interface {
	Create(ctx context.Context, farm Farm) (Farm, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Farm, error)
	Get(ctx context.Context, ownerID int64, id string) (Farm, bool, error)
	Delete(ctx context.Context, ownerID int64, id string) (bool, error)
}
