package cart

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

func (r *postgresRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, customer_id::text, session_id, currency, voucher_number, created_at
FROM carts
WHERE session_id = $1 AND customer_id IS NULL
ORDER BY created_at DESC
LIMIT 1
`
	return r.loadCart(ctx, r.pool.QueryRow(ctx, q, sessionID))
}

func (r *postgresRepo) GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, customer_id::text, session_id, currency, voucher_number, created_at
FROM carts
WHERE customer_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.loadCart(ctx, r.pool.QueryRow(ctx, q, customerID))
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Cart) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, session_id, currency)
VALUES ($1, $2, $3)
RETURNING id::text, customer_id::text, session_id, currency, voucher_number, created_at
`
	return r.loadCart(ctx, r.pool.QueryRow(ctx, q, c.CustomerID, c.SessionID, c.Currency))
}

// AddLine inserts a cart line, folding the quantity and total into the
// existing line when the product is already in the cart.
func (r *postgresRepo) AddLine(ctx context.Context, cartID string, line domain.CartLine) error {
	const q = `
INSERT INTO cart_lines (cart_id, product_id, product_name, quantity, unit_price_cents, tax_rate, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity    = cart_lines.quantity + EXCLUDED.quantity,
    total_cents = cart_lines.total_cents + EXCLUDED.total_cents
`
	_, err := r.pool.Exec(ctx, q,
		cartID, line.ProductID, line.ProductName,
		line.Quantity, line.UnitPriceCents, line.TaxRate, line.TotalCents,
	)
	return err
}

func (r *postgresRepo) SetVoucherNumber(ctx context.Context, cartID, number string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE carts SET voucher_number = $2 WHERE id = $1`, cartID, number)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AssignCustomer(ctx context.Context, cartID, customerID string) error {
	const q = `
UPDATE carts
SET customer_id = $2, session_id = NULL
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, cartID, customerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, cartID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) loadCart(ctx context.Context, row pgx.Row) (*domain.Cart, error) {
	var c domain.Cart
	err := row.Scan(&c.ID, &c.CustomerID, &c.SessionID, &c.Currency, &c.VoucherNumber, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const q = `
SELECT id::text, cart_id::text, product_id::text, product_name, quantity, unit_price_cents, tax_rate, total_cents, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(
			&l.ID, &l.CartID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPriceCents, &l.TaxRate, &l.TotalCents, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}
