package cart

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/service/session"
)

// Service manages the shopper's working basket. Anonymous carts are keyed by
// session, authenticated ones by the user's customer.
type Service struct {
	repo     cartrepo.Repository
	products productrepo.Repository
}

func New(repo cartrepo.Repository, products productrepo.Repository) *Service {
	return &Service{repo: repo, products: products}
}

// Get returns the caller's cart. customerID may be empty for shoppers that
// never reached checkout. Returns domain.ErrNotFound when there is none.
func (s *Service) Get(ctx context.Context, ident *session.Identity, customerID string) (*domain.Cart, error) {
	if customerID != "" {
		c, err := s.repo.GetByCustomer(ctx, customerID)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return c, err
		}
	}
	return s.repo.GetBySession(ctx, ident.SessionID())
}

// AddItem resolves the SKU and folds the quantity into the caller's cart,
// creating the cart on first use.
func (s *Service) AddItem(ctx context.Context, ident *session.Identity, customerID, sku string, quantity int) (*domain.Cart, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errors.New("sku required")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	if !product.Active {
		return nil, errors.New("product not available")
	}

	c, err := s.Get(ctx, ident, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		fresh := domain.Cart{Currency: product.Currency}
		if customerID != "" {
			fresh.CustomerID = &customerID
		} else {
			sid := ident.SessionID()
			fresh.SessionID = &sid
		}
		c, err = s.repo.Create(ctx, fresh)
	}
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
		TaxRate:        product.TaxRate,
		TotalCents:     product.PriceCents * int64(quantity),
	}
	if err := s.repo.AddLine(ctx, c.ID, line); err != nil {
		return nil, err
	}
	return s.Get(ctx, ident, customerID)
}

// StickVoucher stores the submitted voucher number on the cart. Evaluation
// happens at totals time; any number may be stuck.
func (s *Service) StickVoucher(ctx context.Context, cartID, number string) error {
	return s.repo.SetVoucherNumber(ctx, cartID, strings.TrimSpace(number))
}

// Migrate moves an anonymous session cart onto the user's customer after
// login. The session cart is dropped when the customer already has one.
func (s *Service) Migrate(ctx context.Context, sessionID, customerID string) error {
	anon, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.repo.GetByCustomer(ctx, customerID)
	switch {
	case err == nil:
		return s.repo.Delete(ctx, anon.ID)
	case errors.Is(err, domain.ErrNotFound):
		return s.repo.AssignCustomer(ctx, anon.ID, customerID)
	default:
		return err
	}
}
