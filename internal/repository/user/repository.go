package user

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists authentication principals.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
