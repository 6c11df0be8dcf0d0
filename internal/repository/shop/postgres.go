package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.Shop, error) {
	const q = `
SELECT id::text, name, checkout_type, default_country, invoice_countries, shipping_countries,
       address_l10n, line1_visible, line2_visible, paypal_redirect, created_at
FROM shops
ORDER BY created_at
LIMIT 1
`
	var s domain.Shop
	err := r.pool.QueryRow(ctx, q).Scan(
		&s.ID,
		&s.Name,
		&s.CheckoutType,
		&s.DefaultCountry,
		&s.InvoiceCountries,
		&s.ShippingCountries,
		&s.AddressL10N,
		&s.Line1Visible,
		&s.Line2Visible,
		&s.PayPalRedirect,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
