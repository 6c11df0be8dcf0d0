package domain

import "time"

// Cart is the shopper's working basket. Anonymous carts are keyed by session,
// authenticated ones by customer.
type Cart struct {
	ID            string     `json:"id"`
	CustomerID    *string    `json:"customerId,omitempty"`
	SessionID     *string    `json:"-"`
	Currency      string     `json:"currency"`
	VoucherNumber string     `json:"voucherNumber,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Lines         []CartLine `json:"lineItems,omitempty"`
}

type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TaxRate        float64   `json:"taxRate"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Costs sums the cart lines into a price/tax pair. Line prices are gross;
// tax is the included share at each line's tax rate.
func (c *Cart) Costs() Costs {
	var out Costs
	if c == nil {
		return out
	}
	for _, l := range c.Lines {
		out.PriceCents += l.TotalCents
		out.TaxCents += IncludedTaxCents(l.TotalCents, l.TaxRate)
	}
	return out
}
