package payment

import (
	"context"

	"storefront/internal/domain"
)

// Card carries submitted credit card fields. Never persisted.
type Card struct {
	Owner           string `json:"owner"`
	Number          string `json:"number"`
	ExpirationMonth string `json:"expirationMonth"`
	ExpirationYear  string `json:"expirationYear"`
	VerificationID  string `json:"verificationId"`
}

// Context is everything a processor may need to charge a checkout.
type Context struct {
	Customer    *domain.Customer
	Cart        *domain.Cart
	Method      *domain.Method
	TotalCents  int64
	Currency    string
	BankAccount *domain.BankAccount
	Card        *Card
	ThankYouURL string
	PayLink     string
}

// Result is a processor outcome. Failures are results, not errors: Message
// goes to the shopper and MessageKey names the form field group it concerns.
type Result struct {
	Success    bool
	NextURL    string
	Message    string
	MessageKey string
}

// Processor charges one payment method kind.
type Processor interface {
	Process(ctx context.Context, pc Context) (Result, error)
}

// Registry maps payment method kinds to processors.
type Registry struct {
	byKind   map[string]Processor
	fallback Processor
}

// NewRegistry returns a registry with the built-in processors wired.
func NewRegistry() *Registry {
	r := &Registry{byKind: map[string]Processor{}, fallback: acceptProcessor{}}
	r.Register(domain.PaymentPrepayment, acceptProcessor{})
	r.Register(domain.PaymentCashOnDelivery, acceptProcessor{})
	r.Register(domain.PaymentDirectDebit, directDebitProcessor{})
	r.Register(domain.PaymentCreditCard, creditCardProcessor{})
	r.Register(domain.PaymentPayPal, paypalProcessor{})
	return r
}

func (r *Registry) Register(kind string, p Processor) {
	r.byKind[kind] = p
}

// For returns the processor for a method kind. Unknown kinds behave like
// prepayment.
func (r *Registry) For(kind string) Processor {
	if p, ok := r.byKind[kind]; ok {
		return p
	}
	return r.fallback
}
