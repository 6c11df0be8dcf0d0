package voucher

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

func (r *postgresRepo) GetByNumber(ctx context.Context, number string) (*domain.Voucher, error) {
	const q = `
SELECT id::text, number, kind, value_cents, percentage, tax_rate, min_cart_cents,
       effective_from, effective_to, max_uses, uses, active, created_at
FROM vouchers
WHERE number = $1
LIMIT 1
`
	var v domain.Voucher
	err := r.pool.QueryRow(ctx, q, number).Scan(
		&v.ID, &v.Number, &v.Kind, &v.ValueCents, &v.Percentage, &v.TaxRate, &v.MinCartCents,
		&v.EffectiveFrom, &v.EffectiveTo, &v.MaxUses, &v.Uses, &v.Active, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, v domain.Voucher) error {
	const q = `
INSERT INTO vouchers (number, kind, value_cents, percentage, tax_rate, min_cart_cents,
                      effective_from, effective_to, max_uses, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (number) DO UPDATE
SET kind           = EXCLUDED.kind,
    value_cents    = EXCLUDED.value_cents,
    percentage     = EXCLUDED.percentage,
    tax_rate       = EXCLUDED.tax_rate,
    min_cart_cents = EXCLUDED.min_cart_cents,
    effective_from = EXCLUDED.effective_from,
    effective_to   = EXCLUDED.effective_to,
    max_uses       = EXCLUDED.max_uses,
    active         = EXCLUDED.active
`
	_, err := r.pool.Exec(ctx, q,
		v.Number, v.Kind, v.ValueCents, v.Percentage, v.TaxRate, v.MinCartCents,
		v.EffectiveFrom, v.EffectiveTo, v.MaxUses, v.Active,
	)
	return err
}
