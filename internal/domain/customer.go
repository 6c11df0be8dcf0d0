package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// AddressKind qualifies the two parallel address slots a customer carries.
type AddressKind string

const (
	AddressInvoice  AddressKind = "invoice"
	AddressShipping AddressKind = "shipping"
)

// PostalAddress holds normalized postal fields. Rows are deduplicated by
// content hash and shared across customers, so they are immutable once
// created.
type PostalAddress struct {
	ID          string    `json:"id"`
	ContentHash string    `json:"-"`
	Line1       string    `json:"line1,omitempty"`
	Line2       string    `json:"line2,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state,omitempty"`
	Code        string    `json:"code"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HashContent computes the dedup key for a postal address from its normalized
// fields. Two addresses with the same hash are the same row.
func (p PostalAddress) HashContent() string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	h := sha256.New()
	for _, f := range []string{p.Line1, p.Line2, p.City, p.State, p.Code, p.Country} {
		h.Write([]byte(norm(f)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Address wraps a PostalAddress with per-customer person-level fields. It is
// owned by exactly one customer.
type Address struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"-"`
	PostalAddressID string         `json:"-"`
	Postal          *PostalAddress `json:"postal,omitempty"`
	Firstname       string         `json:"firstname,omitempty"`
	Lastname        string         `json:"lastname,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	Email           string         `json:"email,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// BankAccount is created only when the customer pays by direct debit.
type BankAccount struct {
	ID                     string    `json:"id"`
	CustomerID             string    `json:"-"`
	AccountNumber          string    `json:"accountNumber"`
	BankIdentificationCode string    `json:"bankIdentificationCode"`
	BankName               string    `json:"bankName"`
	Depositor              string    `json:"depositor"`
	CreatedAt              time.Time `json:"createdAt"`
}

// Customer carries the per-shopper checkout state. It is created lazily on
// the first checkout interaction and keyed by session (anonymous) or user.
type Customer struct {
	ID        string  `json:"id"`
	UserID    *string `json:"userId,omitempty"`
	SessionID *string `json:"-"`

	SelectedInvoiceAddressID  *string `json:"-"`
	SelectedShippingAddressID *string `json:"-"`
	SelectedInvoiceAddress    *Address `json:"invoiceAddress,omitempty"`
	SelectedShippingAddress   *Address `json:"shippingAddress,omitempty"`

	SelectedInvoicePhone  string `json:"invoicePhone,omitempty"`
	SelectedInvoiceEmail  string `json:"invoiceEmail,omitempty"`
	SelectedShippingPhone string `json:"shippingPhone,omitempty"`
	SelectedShippingEmail string `json:"shippingEmail,omitempty"`

	SelectedPaymentMethodID  *string `json:"paymentMethodId,omitempty"`
	SelectedShippingMethodID *string `json:"shippingMethodId,omitempty"`
	SelectedBankAccountID    *string `json:"-"`
	SelectedCountry          string  `json:"country,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// AddressFor returns the customer's address slot for the given kind.
func (c *Customer) AddressFor(kind AddressKind) *Address {
	if kind == AddressShipping {
		return c.SelectedShippingAddress
	}
	return c.SelectedInvoiceAddress
}
