package domain

import "time"

// Order states. Orders are terminal after creation; the state only moves
// forward through fulfilment.
const (
	OrderSubmitted = "submitted"
	OrderPaid      = "paid"
	OrderSent      = "sent"
	OrderClosed    = "closed"
)

// AddressSnapshot is the by-value copy of an address stored on an order.
// Later edits to the customer's addresses must not change past orders.
type AddressSnapshot struct {
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Line1     string `json:"line1,omitempty"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Code      string `json:"code,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Order is created exactly once per successful payment, from the cart
// snapshot at submission time.
type Order struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	UserID    *string `json:"-"`
	SessionID *string `json:"-"`
	State     string  `json:"state"`
	Currency  string  `json:"currency"`

	CartCents     int64 `json:"cartCents"`
	ShippingCents int64 `json:"shippingCents"`
	PaymentCents  int64 `json:"paymentCents"`
	VoucherCents  int64 `json:"voucherCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`

	VoucherNumber      string `json:"voucherNumber,omitempty"`
	PaymentMethodID    string `json:"paymentMethodId,omitempty"`
	PaymentMethodName  string `json:"paymentMethodName,omitempty"`
	ShippingMethodID   string `json:"shippingMethodId,omitempty"`
	ShippingMethodName string `json:"shippingMethodName,omitempty"`

	InvoiceAddress  AddressSnapshot `json:"invoiceAddress"`
	ShippingAddress AddressSnapshot `json:"shippingAddress"`

	PayLink   string      `json:"payLink,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Lines     []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"-"`
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	TaxRate        float64 `json:"taxRate"`
	TotalCents     int64   `json:"totalCents"`
}
