package voucher

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	voucherrepo "storefront/internal/repository/voucher"
)

// Evaluation is the outcome of applying a voucher number to a cart total.
// A missing or ineffective voucher is a state, not an error.
type Evaluation struct {
	Voucher    *domain.Voucher
	Effective  bool
	Message    string
	PriceCents int64
	TaxCents   int64
}

// Service evaluates voucher numbers against cart totals. The evaluation is
// recomputed on every call; only the number is sticky.
type Service struct {
	repo voucherrepo.Repository
	now  func() time.Time
}

func New(repo voucherrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Evaluate looks up the number and computes the discount for the given cart
// total. Returns nil when no number was submitted.
func (s *Service) Evaluate(ctx context.Context, number string, cartCents int64) (*Evaluation, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, nil
	}

	v, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &Evaluation{Message: domain.MsgVoucherNotFound}, nil
		}
		return nil, err
	}

	eval := &Evaluation{Voucher: v}
	eval.Effective, eval.Message = v.IsEffective(s.now(), cartCents)
	if !eval.Effective {
		return eval, nil
	}

	switch v.Kind {
	case domain.VoucherPercentage:
		eval.PriceCents = domain.PercentageCents(cartCents, v.Percentage)
	default:
		eval.PriceCents = v.ValueCents
		if eval.PriceCents > cartCents {
			eval.PriceCents = cartCents
		}
	}
	eval.TaxCents = domain.IncludedTaxCents(eval.PriceCents, v.TaxRate)
	return eval, nil
}
