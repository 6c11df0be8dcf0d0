package product

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, sku, name, price_cents, tax_rate, currency, active, created_at
FROM products
WHERE id = $1
LIMIT 1
`
	return scanProduct(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	const q = `
SELECT id::text, sku, name, price_cents, tax_rate, currency, active, created_at
FROM products
WHERE sku = $1
LIMIT 1
`
	return scanProduct(r.pool.QueryRow(ctx, q, sku))
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO products (sku, name, price_cents, tax_rate, currency, active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (sku) DO UPDATE
SET name        = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    tax_rate    = EXCLUDED.tax_rate,
    currency    = EXCLUDED.currency,
    active      = EXCLUDED.active
`
	_, err := r.pool.Exec(ctx, q, p.SKU, p.Name, p.PriceCents, p.TaxRate, p.Currency, p.Active)
	return err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceCents, &p.TaxRate, &p.Currency, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
