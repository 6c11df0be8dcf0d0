package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists carts and their lines. Gets load lines eagerly.
type Repository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	Create(ctx context.Context, c domain.Cart) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	SetVoucherNumber(ctx context.Context, cartID, number string) error
	AssignCustomer(ctx context.Context, cartID, customerID string) error
	Delete(ctx context.Context, cartID string) error
}
