package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

const orderColumns = `
id::text, number, user_id::text, session_id, state, currency,
cart_cents, shipping_cents, payment_cents, voucher_cents, tax_cents, total_cents,
voucher_number, payment_method_id, payment_method_name, shipping_method_id, shipping_method_name,
invoice_address, shipping_address, pay_link, created_at
`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order, redeemedVoucherID, cartID string) (*domain.Order, error) {
	invoiceJSON, err := json.Marshal(o.InvoiceAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice address: %w", err)
	}
	shippingJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping address: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const qOrder = `
INSERT INTO orders (number, user_id, session_id, state, currency,
                    cart_cents, shipping_cents, payment_cents, voucher_cents, tax_cents, total_cents,
                    voucher_number, payment_method_id, payment_method_name,
                    shipping_method_id, shipping_method_name,
                    invoice_address, shipping_address, pay_link)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING id::text, created_at
`
	created := o
	err = tx.QueryRow(ctx, qOrder,
		o.Number, o.UserID, o.SessionID, o.State, o.Currency,
		o.CartCents, o.ShippingCents, o.PaymentCents, o.VoucherCents, o.TaxCents, o.TotalCents,
		o.VoucherNumber, o.PaymentMethodID, o.PaymentMethodName,
		o.ShippingMethodID, o.ShippingMethodName,
		invoiceJSON, shippingJSON, o.PayLink,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}

	const qLine = `
INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price_cents, tax_rate, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
	for i := range created.Lines {
		l := &created.Lines[i]
		l.OrderID = created.ID
		if err := tx.QueryRow(ctx, qLine,
			created.ID, l.ProductID, l.ProductName,
			l.Quantity, l.UnitPriceCents, l.TaxRate, l.TotalCents,
		).Scan(&l.ID); err != nil {
			return nil, err
		}
	}

	if redeemedVoucherID != "" {
		const qVoucher = `UPDATE vouchers SET uses = uses + 1 WHERE id = $1`
		if _, err := tx.Exec(ctx, qVoucher, redeemedVoucherID); err != nil {
			return nil, err
		}
	}

	if cartID != "" {
		if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	// The id comes straight from the URL; a non-UUID value would fail the
	// uuid column comparison with a database error rather than no rows.
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND user_id = $2
LIMIT 1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, o)
}

func (r *postgresRepo) GetLatest(ctx context.Context, sessionID, userID string) (*domain.Order, error) {
	var row pgx.Row
	if userID != "" {
		const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
		row = r.pool.QueryRow(ctx, q, userID)
	} else {
		const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1
`
		row = r.pool.QueryRow(ctx, q, sessionID)
	}
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, o)
}

func (r *postgresRepo) withLines(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price_cents, tax_rate, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPriceCents, &l.TaxRate, &l.TotalCents,
		); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var invoiceJSON, shippingJSON []byte
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.SessionID, &o.State, &o.Currency,
		&o.CartCents, &o.ShippingCents, &o.PaymentCents, &o.VoucherCents, &o.TaxCents, &o.TotalCents,
		&o.VoucherNumber, &o.PaymentMethodID, &o.PaymentMethodName,
		&o.ShippingMethodID, &o.ShippingMethodName,
		&invoiceJSON, &shippingJSON, &o.PayLink, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(invoiceJSON, &o.InvoiceAddress); err != nil {
		return nil, fmt.Errorf("unmarshal invoice address: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	return &o, nil
}
