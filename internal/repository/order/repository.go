package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists orders. Create runs in a single transaction that also
// redeems the voucher and drops the originating cart.
type Repository interface {
	// Create inserts the order and its lines, increments the voucher's use
	// count when redeemedVoucherID is non-empty, and deletes the cart when
	// cartID is non-empty. All of it commits or none of it does.
	Create(ctx context.Context, o domain.Order, redeemedVoucherID, cartID string) (*domain.Order, error)

	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	// GetLatest returns the newest order for the session or user, whichever
	// key is set. Used by the thank-you page.
	GetLatest(ctx context.Context, sessionID, userID string) (*domain.Order, error)
}
