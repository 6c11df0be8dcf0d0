package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Apply inserts basic seed data for manual testing. It is idempotent via ON
// CONFLICT and the singleton shop check.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureShop(ctx, pool); err != nil {
		return fmt.Errorf("ensure shop: %w", err)
	}
	if err := seedMethods(ctx, pool); err != nil {
		return fmt.Errorf("seed methods: %w", err)
	}
	if err := seedVouchers(ctx, pool); err != nil {
		return fmt.Errorf("seed vouchers: %w", err)
	}
	if err := seedProducts(ctx, pool); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

func ensureShop(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO shops (name, checkout_type, default_country, invoice_countries, shipping_countries)
SELECT 'Demo Storefront', $1, 'US', '{US,GB,DE}', '{US,GB,DE}'
WHERE NOT EXISTS (SELECT 1 FROM shops)
`
	_, err := pool.Exec(ctx, q, domain.CheckoutTypeSelect)
	return err
}

type methodSeed struct {
	Name       string
	Kind       string
	Priority   int
	PriceCents int64
	TaxRate    float64
}

func seedMethods(ctx context.Context, pool *pgxpool.Pool) error {
	shipping := []methodSeed{
		{Name: "Standard", Priority: 1, PriceCents: 1000, TaxRate: 19},
		{Name: "Express", Priority: 2, PriceCents: 2500, TaxRate: 19},
	}
	for _, m := range shipping {
		const q = `
INSERT INTO shipping_methods (name, priority, price_cents, tax_rate)
SELECT $1, $2, $3, $4
WHERE NOT EXISTS (SELECT 1 FROM shipping_methods WHERE name = $1)
`
		if _, err := pool.Exec(ctx, q, m.Name, m.Priority, m.PriceCents, m.TaxRate); err != nil {
			return fmt.Errorf("shipping method %s: %w", m.Name, err)
		}
	}

	paymentMethods := []methodSeed{
		{Name: "Prepayment", Kind: domain.PaymentPrepayment, Priority: 1, PriceCents: 100, TaxRate: 19},
		{Name: "Cash on delivery", Kind: domain.PaymentCashOnDelivery, Priority: 2, PriceCents: 300, TaxRate: 19},
		{Name: "Direct debit", Kind: domain.PaymentDirectDebit, Priority: 3},
		{Name: "Credit card", Kind: domain.PaymentCreditCard, Priority: 4},
		{Name: "PayPal", Kind: domain.PaymentPayPal, Priority: 5},
	}
	for _, m := range paymentMethods {
		const q = `
INSERT INTO payment_methods (name, kind, priority, price_cents, tax_rate)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (SELECT 1 FROM payment_methods WHERE name = $1)
`
		if _, err := pool.Exec(ctx, q, m.Name, m.Kind, m.Priority, m.PriceCents, m.TaxRate); err != nil {
			return fmt.Errorf("payment method %s: %w", m.Name, err)
		}
	}
	return nil
}

func seedVouchers(ctx context.Context, pool *pgxpool.Pool) error {
	to := time.Now().AddDate(1, 0, 0)
	vouchers := []struct {
		Number     string
		Kind       string
		ValueCents int64
		Percentage float64
	}{
		{Number: "SAVE10", Kind: domain.VoucherAbsolute, ValueCents: 1000},
		{Number: "TENOFF", Kind: domain.VoucherPercentage, Percentage: 10},
	}
	for _, v := range vouchers {
		const q = `
INSERT INTO vouchers (number, kind, value_cents, percentage, tax_rate, effective_to)
VALUES ($1, $2, $3, $4, 19, $5)
ON CONFLICT (number) DO NOTHING
`
		if _, err := pool.Exec(ctx, q, v.Number, v.Kind, v.ValueCents, v.Percentage, to); err != nil {
			return fmt.Errorf("voucher %s: %w", v.Number, err)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) error {
	products := []struct {
		SKU        string
		Name       string
		PriceCents int64
		TaxRate    float64
	}{
		{SKU: "SKU-DEMO-TSHIRT", Name: "Demo T-Shirt", PriceCents: 1999, TaxRate: 19},
		{SKU: "SKU-DEMO-MUG", Name: "Demo Mug", PriceCents: 1299, TaxRate: 19},
		{SKU: "SKU-DEMO-POSTER", Name: "Demo Poster", PriceCents: 4999, TaxRate: 19},
	}
	for _, p := range products {
		const q = `
INSERT INTO products (sku, name, price_cents, tax_rate, currency)
VALUES ($1, $2, $3, $4, 'USD')
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name, price_cents = EXCLUDED.price_cents, tax_rate = EXCLUDED.tax_rate
`
		if _, err := pool.Exec(ctx, q, p.SKU, p.Name, p.PriceCents, p.TaxRate); err != nil {
			return fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	return nil
}
