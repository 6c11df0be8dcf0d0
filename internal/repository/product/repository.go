package product

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads and seeds the product catalog.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) error
}
