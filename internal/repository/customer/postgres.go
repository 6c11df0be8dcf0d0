package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const customerColumns = `
id::text, user_id::text, session_id,
selected_invoice_address_id::text, selected_shipping_address_id::text,
selected_invoice_phone, selected_invoice_email,
selected_shipping_phone, selected_shipping_email,
selected_payment_method_id::text, selected_shipping_method_id::text,
selected_bank_account_id::text, selected_country, created_at
`

func (r *postgresRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE session_id = $1 AND user_id IS NULL
ORDER BY created_at DESC
LIMIT 1
`
	return r.loadCustomer(ctx, r.pool.QueryRow(ctx, q, sessionID))
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE user_id = $1
LIMIT 1
`
	return r.loadCustomer(ctx, r.pool.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (user_id, session_id, selected_country)
VALUES ($1, $2, $3)
RETURNING ` + customerColumns + `
`
	return r.loadCustomer(ctx, r.pool.QueryRow(ctx, q, c.UserID, c.SessionID, c.SelectedCountry))
}

func (r *postgresRepo) Save(ctx context.Context, c *domain.Customer) error {
	const q = `
UPDATE customers
SET selected_invoice_address_id  = $2,
    selected_shipping_address_id = $3,
    selected_invoice_phone       = $4,
    selected_invoice_email       = $5,
    selected_shipping_phone      = $6,
    selected_shipping_email      = $7,
    selected_payment_method_id   = $8,
    selected_shipping_method_id  = $9,
    selected_bank_account_id     = $10,
    selected_country             = $11
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q,
		c.ID,
		c.SelectedInvoiceAddressID,
		c.SelectedShippingAddressID,
		c.SelectedInvoicePhone,
		c.SelectedInvoiceEmail,
		c.SelectedShippingPhone,
		c.SelectedShippingEmail,
		c.SelectedPaymentMethodID,
		c.SelectedShippingMethodID,
		c.SelectedBankAccountID,
		c.SelectedCountry,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AttachUser(ctx context.Context, customerID, userID string) error {
	const q = `
UPDATE customers
SET user_id = $2, session_id = NULL
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, customerID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, customerID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetOrCreatePostal returns the postal address row with the given content,
// inserting it if no row with the same hash exists.
func (r *postgresRepo) GetOrCreatePostal(ctx context.Context, p domain.PostalAddress) (*domain.PostalAddress, error) {
	const q = `
INSERT INTO postal_addresses (content_hash, line1, line2, city, state, code, country)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (content_hash) DO UPDATE SET content_hash = EXCLUDED.content_hash
RETURNING id::text, content_hash, line1, line2, city, state, code, country, created_at
`
	var out domain.PostalAddress
	err := r.pool.QueryRow(ctx, q,
		p.HashContent(), p.Line1, p.Line2, p.City, p.State, p.Code, p.Country,
	).Scan(
		&out.ID, &out.ContentHash,
		&out.Line1, &out.Line2, &out.City, &out.State, &out.Code, &out.Country,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) SaveAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	if a.ID == "" {
		const q = `
INSERT INTO addresses (customer_id, postal_address_id, firstname, lastname, phone, email)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
		err := r.pool.QueryRow(ctx, q,
			a.CustomerID, a.PostalAddressID, a.Firstname, a.Lastname, a.Phone, a.Email,
		).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	const q = `
UPDATE addresses
SET postal_address_id = $2, firstname = $3, lastname = $4, phone = $5, email = $6
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, a.ID, a.PostalAddressID, a.Firstname, a.Lastname, a.Phone, a.Email)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *postgresRepo) GetAddress(ctx context.Context, id string) (*domain.Address, error) {
	const q = `
SELECT a.id::text, a.customer_id::text, a.postal_address_id::text,
       a.firstname, a.lastname, a.phone, a.email, a.created_at,
       p.id::text, p.content_hash, p.line1, p.line2, p.city, p.state, p.code, p.country, p.created_at
FROM addresses a
JOIN postal_addresses p ON p.id = a.postal_address_id
WHERE a.id = $1
LIMIT 1
`
	var a domain.Address
	var p domain.PostalAddress
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.CustomerID, &a.PostalAddressID,
		&a.Firstname, &a.Lastname, &a.Phone, &a.Email, &a.CreatedAt,
		&p.ID, &p.ContentHash, &p.Line1, &p.Line2, &p.City, &p.State, &p.Code, &p.Country, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	a.Postal = &p
	return &a, nil
}

func (r *postgresRepo) CreateBankAccount(ctx context.Context, b domain.BankAccount) (*domain.BankAccount, error) {
	const q = `
INSERT INTO bank_accounts (customer_id, account_number, bank_identification_code, bank_name, depositor)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	err := r.pool.QueryRow(ctx, q,
		b.CustomerID, b.AccountNumber, b.BankIdentificationCode, b.BankName, b.Depositor,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error) {
	const q = `
SELECT id::text, customer_id::text, account_number, bank_identification_code, bank_name, depositor, created_at
FROM bank_accounts
WHERE id = $1
LIMIT 1
`
	var b domain.BankAccount
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.CustomerID,
		&b.AccountNumber, &b.BankIdentificationCode, &b.BankName, &b.Depositor,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// loadCustomer scans the base row and hydrates the selected address slots.
func (r *postgresRepo) loadCustomer(ctx context.Context, row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.UserID, &c.SessionID,
		&c.SelectedInvoiceAddressID, &c.SelectedShippingAddressID,
		&c.SelectedInvoicePhone, &c.SelectedInvoiceEmail,
		&c.SelectedShippingPhone, &c.SelectedShippingEmail,
		&c.SelectedPaymentMethodID, &c.SelectedShippingMethodID,
		&c.SelectedBankAccountID, &c.SelectedCountry,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if c.SelectedInvoiceAddressID != nil {
		a, err := r.GetAddress(ctx, *c.SelectedInvoiceAddressID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		c.SelectedInvoiceAddress = a
	}
	if c.SelectedShippingAddressID != nil {
		a, err := r.GetAddress(ctx, *c.SelectedShippingAddressID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		c.SelectedShippingAddress = a
	}
	return &c, nil
}
