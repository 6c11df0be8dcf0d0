package pricing

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/service/methods"
	"storefront/internal/service/voucher"
)

// Totals is the full cost breakdown of a checkout. The voucher value reduces
// the price; its tax is reported separately and never subtracted from the
// aggregate tax.
type Totals struct {
	Cart     domain.Costs
	Shipping domain.Costs
	Payment  domain.Costs

	ShippingMethod *domain.Method
	PaymentMethod  *domain.Method
	Voucher        *voucher.Evaluation

	PriceCents int64
	TaxCents   int64
}

// Service aggregates cart, method and voucher costs into checkout totals.
type Service struct {
	methods  *methods.Service
	vouchers *voucher.Service
}

func New(m *methods.Service, v *voucher.Service) *Service {
	return &Service{methods: m, vouchers: v}
}

// ComputeTotals resolves the customer's effective methods for the delivery
// country and folds cart, shipping, payment and voucher into one breakdown.
func (s *Service) ComputeTotals(ctx context.Context, cart *domain.Cart, c *domain.Customer, country string) (*Totals, error) {
	t := &Totals{Cart: cart.Costs()}

	shipping, err := s.methods.SelectedShipping(ctx, c, country, t.Cart.PriceCents)
	if err != nil {
		return nil, err
	}
	payment, err := s.methods.SelectedPayment(ctx, c, country, t.Cart.PriceCents)
	if err != nil {
		return nil, err
	}
	t.ShippingMethod = shipping
	t.PaymentMethod = payment
	t.Shipping = methods.Costs(shipping)
	t.Payment = methods.Costs(payment)

	t.PriceCents = t.Cart.PriceCents + t.Shipping.PriceCents + t.Payment.PriceCents
	t.TaxCents = t.Cart.TaxCents + t.Shipping.TaxCents + t.Payment.TaxCents

	eval, err := s.vouchers.Evaluate(ctx, cart.VoucherNumber, t.Cart.PriceCents)
	if err != nil {
		return nil, err
	}
	t.Voucher = eval
	if eval != nil && eval.Effective {
		t.PriceCents -= eval.PriceCents
	}
	return t, nil
}
