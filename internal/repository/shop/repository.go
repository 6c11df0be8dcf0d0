package shop

import (
	"context"

	"storefront/internal/domain"
)

// Repository fetches the default shop. Policy changes go through migrations
// or the seed command, not this service.
type Repository interface {
	Get(ctx context.Context) (*domain.Shop, error)
}
