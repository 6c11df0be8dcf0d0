package method

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads the shipping and payment method catalogs. Lists return
// active methods in priority order.
type Repository interface {
	ListShipping(ctx context.Context) ([]domain.Method, error)
	ListPayment(ctx context.Context) ([]domain.Method, error)
	GetShipping(ctx context.Context, id string) (*domain.Method, error)
	GetPayment(ctx context.Context, id string) (*domain.Method, error)
}
