package method

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

func (r *postgresRepo) ListShipping(ctx context.Context) ([]domain.Method, error) {
	const q = `
SELECT id::text, name, '', priority, price_cents, tax_rate, active, countries, min_cart_cents, max_cart_cents, created_at
FROM shipping_methods
WHERE active
ORDER BY priority, name
`
	return r.list(ctx, q)
}

func (r *postgresRepo) ListPayment(ctx context.Context) ([]domain.Method, error) {
	const q = `
SELECT id::text, name, kind, priority, price_cents, tax_rate, active, countries, min_cart_cents, max_cart_cents, created_at
FROM payment_methods
WHERE active
ORDER BY priority, name
`
	return r.list(ctx, q)
}

func (r *postgresRepo) GetShipping(ctx context.Context, id string) (*domain.Method, error) {
	const q = `
SELECT id::text, name, '', priority, price_cents, tax_rate, active, countries, min_cart_cents, max_cart_cents, created_at
FROM shipping_methods
WHERE id = $1
LIMIT 1
`
	return scanMethod(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetPayment(ctx context.Context, id string) (*domain.Method, error) {
	const q = `
SELECT id::text, name, kind, priority, price_cents, tax_rate, active, countries, min_cart_cents, max_cart_cents, created_at
FROM payment_methods
WHERE id = $1
LIMIT 1
`
	return scanMethod(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) list(ctx context.Context, q string) ([]domain.Method, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMethod(row pgx.Row) (*domain.Method, error) {
	var m domain.Method
	err := row.Scan(
		&m.ID, &m.Name, &m.Kind, &m.Priority,
		&m.PriceCents, &m.TaxRate, &m.Active, &m.Countries,
		&m.MinCartCents, &m.MaxCartCents, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
