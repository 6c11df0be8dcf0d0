package domain

import "time"

// Payment method kinds. The kind selects the payment processor.
const (
	PaymentPrepayment     = "prepayment"
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentDirectDebit    = "direct_debit"
	PaymentCreditCard     = "credit_card"
	PaymentPayPal         = "paypal"
)

// Method is a shipping or payment method catalog entry. Its validity
// predicate covers the delivery country and the cart total bounds.
type Method struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind,omitempty"`
	Priority     int       `json:"priority"`
	PriceCents   int64     `json:"priceCents"`
	TaxRate      float64   `json:"taxRate"`
	Active       bool      `json:"-"`
	Countries    []string  `json:"-"`
	MinCartCents int64     `json:"-"`
	MaxCartCents int64     `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// ValidFor reports whether the method applies for the given delivery country
// and cart total. An empty country list means the method applies everywhere;
// zero bounds are unbounded.
func (m Method) ValidFor(country string, cartCents int64) bool {
	if !m.Active {
		return false
	}
	if len(m.Countries) > 0 {
		found := false
		for _, c := range m.Countries {
			if c == country {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if m.MinCartCents > 0 && cartCents < m.MinCartCents {
		return false
	}
	if m.MaxCartCents > 0 && cartCents > m.MaxCartCents {
		return false
	}
	return true
}

// Costs is the price/tax pair returned for methods, carts and vouchers.
type Costs struct {
	PriceCents int64 `json:"priceCents"`
	TaxCents   int64 `json:"taxCents"`
}
