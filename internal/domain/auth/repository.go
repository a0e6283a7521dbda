package auth

import (
	"context"
	"errors"
)

// ErrNameExists is returned by Create when the farmer name is taken, ignoring case.
var ErrNameExists = errors.New("farmer name already exists")

// Repository persists farmer accounts. Name lookups are case-insensitive.
type Repository interface {
	Create(ctx context.Context, farmerName, passwordHash string) (User, error)
	GetByName(ctx context.Context, farmerName string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
}
