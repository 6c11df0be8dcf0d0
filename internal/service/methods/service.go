package methods

import (
	"context"

	"storefront/internal/domain"
	methodrepo "storefront/internal/repository/method"
)

// Service resolves which shipping and payment methods a customer may use for
// the current delivery country and cart total.
type Service struct {
	repo methodrepo.Repository
}

func New(repo methodrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Shipping loads one shipping method by id.
func (s *Service) Shipping(ctx context.Context, id string) (*domain.Method, error) {
	return s.repo.GetShipping(ctx, id)
}

// Payment loads one payment method by id.
func (s *Service) Payment(ctx context.Context, id string) (*domain.Method, error) {
	return s.repo.GetPayment(ctx, id)
}

// ValidShipping returns the active shipping methods valid for the country and
// cart total, in priority order.
func (s *Service) ValidShipping(ctx context.Context, country string, cartCents int64) ([]domain.Method, error) {
	all, err := s.repo.ListShipping(ctx)
	if err != nil {
		return nil, err
	}
	return filterValid(all, country, cartCents), nil
}

// ValidPayment is ValidShipping for payment methods.
func (s *Service) ValidPayment(ctx context.Context, country string, cartCents int64) ([]domain.Method, error) {
	all, err := s.repo.ListPayment(ctx)
	if err != nil {
		return nil, err
	}
	return filterValid(all, country, cartCents), nil
}

// SelectedShipping returns the customer's stored shipping selection if it is
// still valid, otherwise the first valid method, otherwise nil.
func (s *Service) SelectedShipping(ctx context.Context, c *domain.Customer, country string, cartCents int64) (*domain.Method, error) {
	valid, err := s.ValidShipping(ctx, country, cartCents)
	if err != nil {
		return nil, err
	}
	return pick(valid, c.SelectedShippingMethodID), nil
}

// SelectedPayment is SelectedShipping for payment methods.
func (s *Service) SelectedPayment(ctx context.Context, c *domain.Customer, country string, cartCents int64) (*domain.Method, error) {
	valid, err := s.ValidPayment(ctx, country, cartCents)
	if err != nil {
		return nil, err
	}
	return pick(valid, c.SelectedPaymentMethodID), nil
}

// UpdateToValidShipping overwrites the customer's stored shipping selection
// when it is no longer valid. Mutates the customer and reports whether it
// changed; the caller persists.
func (s *Service) UpdateToValidShipping(ctx context.Context, c *domain.Customer, country string, cartCents int64) (*domain.Method, bool, error) {
	m, err := s.SelectedShipping(ctx, c, country, cartCents)
	if err != nil {
		return nil, false, err
	}
	return m, reselect(&c.SelectedShippingMethodID, m), nil
}

// UpdateToValidPayment is UpdateToValidShipping for payment methods.
func (s *Service) UpdateToValidPayment(ctx context.Context, c *domain.Customer, country string, cartCents int64) (*domain.Method, bool, error) {
	m, err := s.SelectedPayment(ctx, c, country, cartCents)
	if err != nil {
		return nil, false, err
	}
	return m, reselect(&c.SelectedPaymentMethodID, m), nil
}

// Costs returns the method's price and its included tax share.
func Costs(m *domain.Method) domain.Costs {
	if m == nil {
		return domain.Costs{}
	}
	return domain.Costs{
		PriceCents: m.PriceCents,
		TaxCents:   domain.IncludedTaxCents(m.PriceCents, m.TaxRate),
	}
}

func filterValid(all []domain.Method, country string, cartCents int64) []domain.Method {
	var out []domain.Method
	for _, m := range all {
		if m.ValidFor(country, cartCents) {
			out = append(out, m)
		}
	}
	return out
}

func pick(valid []domain.Method, selectedID *string) *domain.Method {
	if selectedID != nil {
		for i := range valid {
			if valid[i].ID == *selectedID {
				return &valid[i]
			}
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return &valid[0]
}

func reselect(slot **string, m *domain.Method) bool {
	switch {
	case m == nil:
		if *slot == nil {
			return false
		}
		*slot = nil
	case *slot == nil || **slot != m.ID:
		id := m.ID
		*slot = &id
	default:
		return false
	}
	return true
}
