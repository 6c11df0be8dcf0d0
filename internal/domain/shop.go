package domain

import "time"

// Checkout types restrict who may check out.
const (
	CheckoutTypeSelect = 0 // anonymous and authenticated
	CheckoutTypeAnon   = 1 // anonymous only
	CheckoutTypeAuth   = 2 // authenticated only
)

// Shop holds the storefront-wide checkout policy. There is exactly one shop.
type Shop struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CheckoutType      int       `json:"checkoutType"`
	DefaultCountry    string    `json:"defaultCountry"`
	InvoiceCountries  []string  `json:"invoiceCountries"`
	ShippingCountries []string  `json:"shippingCountries"`
	AddressL10N       bool      `json:"addressL10n"`
	Line1Visible      bool      `json:"line1Visible"`
	Line2Visible      bool      `json:"line2Visible"`
	PayPalRedirect    bool      `json:"paypalRedirect"`
	CreatedAt         time.Time `json:"createdAt"`
}

// CountriesFor returns the assignable country list for an address kind.
func (s Shop) CountriesFor(kind AddressKind) []string {
	if kind == AddressShipping {
		return s.ShippingCountries
	}
	return s.InvoiceCountries
}
