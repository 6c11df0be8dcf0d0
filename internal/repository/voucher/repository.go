package voucher

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists vouchers. Use counting happens at order creation, in
// the order repository's transaction.
type Repository interface {
	GetByNumber(ctx context.Context, number string) (*domain.Voucher, error)
	Upsert(ctx context.Context, v domain.Voucher) error
}
