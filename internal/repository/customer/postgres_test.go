package customer

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_GetOrCreatePostalDedup(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	first, err := repo.GetOrCreatePostal(ctx, domain.PostalAddress{
		Line1: "1 Main St", City: "Springfield", State: "IL", Code: "12345", Country: "US",
	})
	if err != nil {
		t.Fatalf("GetOrCreatePostal: %v", err)
	}

	// Hashing normalizes case and surrounding whitespace, so this is the
	// same content and must return the same row.
	same, err := repo.GetOrCreatePostal(ctx, domain.PostalAddress{
		Line1: " 1 MAIN ST ", City: "springfield", State: "il", Code: "12345", Country: "us",
	})
	if err != nil {
		t.Fatalf("GetOrCreatePostal same content: %v", err)
	}
	if same.ID != first.ID {
		t.Fatalf("same content returned different rows: %s vs %s", same.ID, first.ID)
	}

	other, err := repo.GetOrCreatePostal(ctx, domain.PostalAddress{
		Line1: "9 Elm Rd", City: "Shelbyville", State: "IL", Code: "54321", Country: "US",
	})
	if err != nil {
		t.Fatalf("GetOrCreatePostal other content: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("different content shared row %s", first.ID)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM postal_addresses`).Scan(&count); err != nil {
		t.Fatalf("count postal rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("postal rows = %d, want 2", count)
	}
}

func TestPostgres_SaveAndLoadCustomer(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	sid := "sess-1"
	customer, err := repo.Create(ctx, domain.Customer{SessionID: &sid, SelectedCountry: "US"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	postal, err := repo.GetOrCreatePostal(ctx, domain.PostalAddress{
		Line1: "1 Main St", City: "Springfield", Country: "US",
	})
	if err != nil {
		t.Fatalf("GetOrCreatePostal: %v", err)
	}
	addr, err := repo.SaveAddress(ctx, domain.Address{
		CustomerID:      customer.ID,
		PostalAddressID: postal.ID,
		Firstname:       "Jane",
		Lastname:        "Doe",
	})
	if err != nil {
		t.Fatalf("SaveAddress: %v", err)
	}

	customer.SelectedInvoiceAddressID = &addr.ID
	customer.SelectedInvoicePhone = "555-0100"
	if err := repo.Save(ctx, customer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.GetBySession(ctx, sid)
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if loaded.SelectedInvoicePhone != "555-0100" {
		t.Fatalf("phone not persisted: %+v", loaded)
	}
	if loaded.SelectedInvoiceAddress == nil || loaded.SelectedInvoiceAddress.Postal == nil {
		t.Fatalf("invoice address not hydrated: %+v", loaded)
	}
	if loaded.SelectedInvoiceAddress.Postal.Line1 != "1 Main St" {
		t.Fatalf("postal mismatch %+v", loaded.SelectedInvoiceAddress.Postal)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	const q = `TRUNCATE order_lines, orders, cart_lines, carts, vouchers, products,
bank_accounts, addresses, customers, postal_addresses,
shipping_methods, payment_methods, tokens, users, shops RESTART IDENTITY CASCADE`
	if _, err := pool.Exec(ctx, q); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
