package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/payment"
	customerrepo "storefront/internal/repository/customer"
	orderrepo "storefront/internal/repository/order"
	shoprepo "storefront/internal/repository/shop"
	"storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/service/methods"
	"storefront/internal/service/pricing"
	"storefront/internal/service/session"
)

var (
	// ErrEmptyCart signals checkout was entered without cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLoginRequired signals the shop only checks out authenticated users.
	ErrLoginRequired = errors.New("login required")
)

// Generic banner shown above field errors on an invalid submission.
const MsgFormInvalid = "An error has occurred. Please correct the marked fields."

// State is the assembled one-page checkout: cart, totals, valid methods and
// both address forms. Fragments and the page document render from it.
type State struct {
	Shop     *domain.Shop
	Customer *domain.Customer
	Cart     *domain.Cart
	Country  string
	Totals   *pricing.Totals

	ValidShipping []domain.Method
	ValidPayment  []domain.Method

	InvoiceForm  address.Form
	ShippingForm address.Form
}

// RequiresBankAccount reports whether the selected payment method collects
// bank details in the checkout form.
func (st *State) RequiresBankAccount() bool {
	return st.Totals != nil && st.Totals.PaymentMethod != nil &&
		st.Totals.PaymentMethod.Kind == domain.PaymentDirectDebit
}

// RequiresCreditCard reports whether the selected payment method collects
// card details in the checkout form.
func (st *State) RequiresCreditCard() bool {
	return st.Totals != nil && st.Totals.PaymentMethod != nil &&
		st.Totals.PaymentMethod.Kind == domain.PaymentCreditCard
}

// Service orchestrates the one-page checkout.
type Service struct {
	shops     shoprepo.Repository
	custRepo  customerrepo.Repository
	customers *customersvc.Service
	carts     *cartsvc.Service
	orders    orderrepo.Repository
	addresses *address.Service
	methods   *methods.Service
	pricing   *pricing.Service
	payments  *payment.Registry
	baseURL   string
}

func New(
	shops shoprepo.Repository,
	custRepo customerrepo.Repository,
	customers *customersvc.Service,
	carts *cartsvc.Service,
	orders orderrepo.Repository,
	addresses *address.Service,
	methodsSvc *methods.Service,
	pricingSvc *pricing.Service,
	payments *payment.Registry,
	baseURL string,
) *Service {
	return &Service{
		shops:     shops,
		custRepo:  custRepo,
		customers: customers,
		carts:     carts,
		orders:    orders,
		addresses: addresses,
		methods:   methodsSvc,
		pricing:   pricingSvc,
		payments:  payments,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Route names returned by Dispatch.
const (
	RouteCheckout = "checkout"
	RouteLogin    = "login"
	RouteEmpty    = "empty"
)

// Dispatch picks the entry page: empty-cart page without lines, the one-page
// checkout for authenticated shoppers and anonymous-only shops, the checkout
// login otherwise.
func (s *Service) Dispatch(ctx context.Context, ident *session.Identity) (string, error) {
	shop, err := s.shops.Get(ctx)
	if err != nil {
		return "", err
	}
	cart, err := s.cartFor(ctx, ident)
	if err != nil {
		return "", err
	}
	if cart.IsEmpty() {
		return RouteEmpty, nil
	}
	if ident.User != nil || shop.CheckoutType == domain.CheckoutTypeAnon {
		return RouteCheckout, nil
	}
	return RouteLogin, nil
}

// View assembles the one-page checkout state.
func (s *Service) View(ctx context.Context, ident *session.Identity) (*State, error) {
	shop, customer, cart, err := s.load(ctx, ident)
	if err != nil {
		return nil, err
	}
	return s.buildState(ctx, shop, customer, cart)
}

func (s *Service) load(ctx context.Context, ident *session.Identity) (*domain.Shop, *domain.Customer, *domain.Cart, error) {
	shop, err := s.shops.Get(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if shop.CheckoutType == domain.CheckoutTypeAuth && ident.User == nil {
		return nil, nil, nil, ErrLoginRequired
	}
	customer, err := s.customers.For(ctx, ident)
	if err != nil {
		return nil, nil, nil, err
	}
	cart, err := s.carts.Get(ctx, ident, customer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, ErrEmptyCart
		}
		return nil, nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, nil, ErrEmptyCart
	}
	return shop, customer, cart, nil
}

// cartFor loads the caller's cart without lazily creating a customer.
func (s *Service) cartFor(ctx context.Context, ident *session.Identity) (*domain.Cart, error) {
	customerID := ""
	if c, err := s.customers.Peek(ctx, ident); err == nil {
		customerID = c.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	cart, err := s.carts.Get(ctx, ident, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Cart{}, nil
	}
	return cart, err
}

func (s *Service) buildState(ctx context.Context, shop *domain.Shop, customer *domain.Customer, cart *domain.Cart) (*State, error) {
	st := &State{Shop: shop, Customer: customer, Cart: cart}

	st.Country = address.ResolveCountry(shop, customer, customer.SelectedCountry, domain.AddressShipping)

	totals, err := s.pricing.ComputeTotals(ctx, cart, customer, st.Country)
	if err != nil {
		return nil, err
	}
	st.Totals = totals

	st.ValidShipping, err = s.methods.ValidShipping(ctx, st.Country, totals.Cart.PriceCents)
	if err != nil {
		return nil, err
	}
	st.ValidPayment, err = s.methods.ValidPayment(ctx, st.Country, totals.Cart.PriceCents)
	if err != nil {
		return nil, err
	}

	invoiceCountry := address.ResolveCountry(shop, customer, "", domain.AddressInvoice)
	st.InvoiceForm = address.FormFor(shop, customer, domain.AddressInvoice, invoiceCountry)
	st.ShippingForm = address.FormFor(shop, customer, domain.AddressShipping, st.Country)
	return st, nil
}

// BankInput carries submitted direct-debit bank fields.
type BankInput struct {
	AccountNumber          string `json:"accountNumber"`
	BankIdentificationCode string `json:"bankIdentificationCode"`
	BankName               string `json:"bankName"`
	Depositor              string `json:"depositor"`
}

// SubmitInput is the merged one-page checkout form. The invoice and shipping
// namespaces arrive as separate field groups.
type SubmitInput struct {
	Invoice    address.Input `json:"invoice"`
	Shipping   address.Input `json:"shipping"`
	NoShipping bool          `json:"noShipping"`

	ShippingMethodID string `json:"shippingMethodId"`
	PaymentMethodID  string `json:"paymentMethodId"`
	VoucherNumber    string `json:"voucher"`

	Bank BankInput     `json:"bank"`
	Card *payment.Card `json:"card"`
}

// SubmitResult is the outcome of a checkout submission: a redirect on
// success, field errors and a banner otherwise.
type SubmitResult struct {
	RedirectURL string
	Order       *domain.Order
	Errors      map[string]string
	Message     string
}

// Submit validates the merged form, persists customer state, processes the
// payment and creates the order. Nothing is persisted when validation fails;
// customer state survives a failed payment.
func (s *Service) Submit(ctx context.Context, ident *session.Identity, in SubmitInput) (*SubmitResult, error) {
	shop, customer, cart, err := s.load(ctx, ident)
	if err != nil {
		return nil, err
	}

	errs := s.validate(ctx, shop, in)
	if len(errs) > 0 {
		return &SubmitResult{Errors: errs, Message: MsgFormInvalid}, nil
	}

	if in.VoucherNumber != "" && in.VoucherNumber != cart.VoucherNumber {
		if err := s.carts.StickVoucher(ctx, cart.ID, in.VoucherNumber); err != nil {
			return nil, err
		}
		cart.VoucherNumber = strings.TrimSpace(in.VoucherNumber)
	}

	if err := s.persistSelections(ctx, shop, customer, cart, in); err != nil {
		return nil, err
	}

	st, err := s.buildState(ctx, shop, customer, cart)
	if err != nil {
		return nil, err
	}

	var bank *domain.BankAccount
	if st.RequiresBankAccount() {
		bank, err = s.custRepo.CreateBankAccount(ctx, domain.BankAccount{
			CustomerID:             customer.ID,
			AccountNumber:          strings.TrimSpace(in.Bank.AccountNumber),
			BankIdentificationCode: strings.TrimSpace(in.Bank.BankIdentificationCode),
			BankName:               strings.TrimSpace(in.Bank.BankName),
			Depositor:              strings.TrimSpace(in.Bank.Depositor),
		})
		if err != nil {
			return nil, err
		}
		customer.SelectedBankAccountID = &bank.ID
		if err := s.custRepo.Save(ctx, customer); err != nil {
			return nil, err
		}
	}

	if st.Totals.PaymentMethod == nil || st.Totals.ShippingMethod == nil {
		return &SubmitResult{
			Errors:  map[string]string{"payment_method": "No valid method available."},
			Message: MsgFormInvalid,
		}, nil
	}

	number := orderNumber()
	pc := payment.Context{
		Customer:    customer,
		Cart:        cart,
		Method:      st.Totals.PaymentMethod,
		TotalCents:  st.Totals.PriceCents,
		Currency:    cart.Currency,
		BankAccount: bank,
		Card:        in.Card,
		ThankYouURL: s.baseURL + "/checkout/thank-you",
		PayLink:     fmt.Sprintf("%s/orders/%s/pay", s.baseURL, number),
	}
	result, err := s.payments.For(st.Totals.PaymentMethod.Kind).Process(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}
	if !result.Success {
		key := result.MessageKey
		if key == "" {
			key = "payment_method"
		}
		return &SubmitResult{
			Errors:  map[string]string{key: result.Message},
			Message: result.Message,
		}, nil
	}

	order, err := s.createOrder(ctx, ident, number, st, pc.PayLink)
	if err != nil {
		return nil, err
	}

	redirect := result.NextURL
	if st.Totals.PaymentMethod.Kind == domain.PaymentPayPal && !shop.PayPalRedirect {
		redirect = pc.ThankYouURL
	}
	if redirect == "" {
		redirect = pc.ThankYouURL
	}
	return &SubmitResult{RedirectURL: redirect, Order: order}, nil
}

func (s *Service) validate(ctx context.Context, shop *domain.Shop, in SubmitInput) map[string]string {
	errs := address.Validate(shop, domain.AddressInvoice, in.Invoice)
	if !in.NoShipping {
		for k, v := range address.Validate(shop, domain.AddressShipping, in.Shipping) {
			errs[k] = v
		}
	}
	if strings.TrimSpace(in.PaymentMethodID) == "" {
		errs["payment_method"] = "This field is required."
	}
	if strings.TrimSpace(in.ShippingMethodID) == "" {
		errs["shipping_method"] = "This field is required."
	}
	if pm, err := s.selectedPaymentKind(ctx, in.PaymentMethodID); err == nil {
		switch pm {
		case domain.PaymentDirectDebit:
			if strings.TrimSpace(in.Bank.AccountNumber) == "" {
				errs["bank-account_number"] = "This field is required."
			}
			if strings.TrimSpace(in.Bank.Depositor) == "" {
				errs["bank-depositor"] = "This field is required."
			}
		case domain.PaymentCreditCard:
			if in.Card == nil || strings.TrimSpace(in.Card.Number) == "" {
				errs["card-number"] = "This field is required."
			}
		}
	}
	return errs
}

func (s *Service) selectedPaymentKind(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", domain.ErrNotFound
	}
	m, err := s.methods.Payment(ctx, id)
	if err != nil {
		return "", err
	}
	return m.Kind, nil
}

// persistSelections stores the validated addresses and method choices on the
// customer. With no_shipping the invoice namespace doubles as the shipping
// one.
func (s *Service) persistSelections(ctx context.Context, shop *domain.Shop, customer *domain.Customer, cart *domain.Cart, in SubmitInput) error {
	if err := s.addresses.Persist(ctx, customer, domain.AddressInvoice, in.Invoice); err != nil {
		return err
	}
	shipping := in.Shipping
	if in.NoShipping {
		shipping = in.Invoice
	}
	if err := s.addresses.Persist(ctx, customer, domain.AddressShipping, shipping); err != nil {
		return err
	}

	if id := strings.TrimSpace(in.ShippingMethodID); id != "" {
		customer.SelectedShippingMethodID = &id
	}
	if id := strings.TrimSpace(in.PaymentMethodID); id != "" {
		customer.SelectedPaymentMethodID = &id
	}
	customer.SelectedCountry = strings.TrimSpace(shipping.Country)

	cartCents := cart.Costs().PriceCents
	if _, _, err := s.methods.UpdateToValidShipping(ctx, customer, customer.SelectedCountry, cartCents); err != nil {
		return err
	}
	if _, _, err := s.methods.UpdateToValidPayment(ctx, customer, customer.SelectedCountry, cartCents); err != nil {
		return err
	}
	return s.custRepo.Save(ctx, customer)
}

func (s *Service) createOrder(ctx context.Context, ident *session.Identity, number string, st *State, payLink string) (*domain.Order, error) {
	o := domain.Order{
		Number:   number,
		State:    domain.OrderSubmitted,
		Currency: st.Cart.Currency,

		CartCents:     st.Totals.Cart.PriceCents,
		ShippingCents: st.Totals.Shipping.PriceCents,
		PaymentCents:  st.Totals.Payment.PriceCents,
		TaxCents:      st.Totals.TaxCents,
		TotalCents:    st.Totals.PriceCents,

		InvoiceAddress:  snapshot(st.Customer, domain.AddressInvoice),
		ShippingAddress: snapshot(st.Customer, domain.AddressShipping),
		PayLink:         payLink,
	}
	if ident.User != nil {
		uid := ident.User.ID
		o.UserID = &uid
	}
	sid := ident.SessionID()
	o.SessionID = &sid

	if m := st.Totals.ShippingMethod; m != nil {
		o.ShippingMethodID, o.ShippingMethodName = m.ID, m.Name
	}
	if m := st.Totals.PaymentMethod; m != nil {
		o.PaymentMethodID, o.PaymentMethodName = m.ID, m.Name
	}

	redeemedVoucherID := ""
	if v := st.Totals.Voucher; v != nil && v.Effective {
		o.VoucherCents = v.PriceCents
		o.VoucherNumber = v.Voucher.Number
		redeemedVoucherID = v.Voucher.ID
	}

	for _, l := range st.Cart.Lines {
		o.Lines = append(o.Lines, domain.OrderLine{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			TaxRate:        l.TaxRate,
			TotalCents:     l.TotalCents,
		})
	}

	return s.orders.Create(ctx, o, redeemedVoucherID, st.Cart.ID)
}

// ApplyVoucher sticks the submitted number on the cart and rebuilds the
// state. Unknown numbers stick too; the evaluation carries the message.
func (s *Service) ApplyVoucher(ctx context.Context, ident *session.Identity, number string) (*State, error) {
	shop, customer, cart, err := s.load(ctx, ident)
	if err != nil {
		return nil, err
	}
	number = strings.TrimSpace(number)
	if err := s.carts.StickVoucher(ctx, cart.ID, number); err != nil {
		return nil, err
	}
	cart.VoucherNumber = number
	return s.buildState(ctx, shop, customer, cart)
}

// ChangedInput carries the selections of a background checkout change.
type ChangedInput struct {
	ShippingMethodID string `json:"shippingMethodId"`
	PaymentMethodID  string `json:"paymentMethodId"`
	Country          string `json:"country"`
}

// Changed saves the submitted method and country selections, re-runs
// update-to-valid for both method kinds and rebuilds the state.
func (s *Service) Changed(ctx context.Context, ident *session.Identity, in ChangedInput) (*State, error) {
	shop, customer, cart, err := s.load(ctx, ident)
	if err != nil {
		return nil, err
	}

	if id := strings.TrimSpace(in.ShippingMethodID); id != "" {
		customer.SelectedShippingMethodID = &id
	}
	if id := strings.TrimSpace(in.PaymentMethodID); id != "" {
		customer.SelectedPaymentMethodID = &id
	}
	if c := strings.TrimSpace(in.Country); c != "" {
		customer.SelectedCountry = c
	}

	country := address.ResolveCountry(shop, customer, customer.SelectedCountry, domain.AddressShipping)
	cartCents := cart.Costs().PriceCents
	if _, _, err := s.methods.UpdateToValidShipping(ctx, customer, country, cartCents); err != nil {
		return nil, err
	}
	if _, _, err := s.methods.UpdateToValidPayment(ctx, customer, country, cartCents); err != nil {
		return nil, err
	}
	if err := s.custRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return s.buildState(ctx, shop, customer, cart)
}

// CountryChanged records a country pick for one address namespace and
// rebuilds the state. A shipping country change re-validates the methods.
func (s *Service) CountryChanged(ctx context.Context, ident *session.Identity, kind domain.AddressKind, country string) (*State, error) {
	if kind == domain.AddressShipping {
		return s.Changed(ctx, ident, ChangedInput{Country: country})
	}
	shop, customer, cart, err := s.load(ctx, ident)
	if err != nil {
		return nil, err
	}
	st, err := s.buildState(ctx, shop, customer, cart)
	if err != nil {
		return nil, err
	}
	st.InvoiceForm = address.FormFor(shop, customer, domain.AddressInvoice, strings.TrimSpace(country))
	return st, nil
}

// ThankYou returns the caller's most recent order.
func (s *Service) ThankYou(ctx context.Context, ident *session.Identity) (*domain.Order, error) {
	return s.orders.GetLatest(ctx, ident.SessionID(), ident.UserID())
}

// snapshot copies an address slot by value onto an order.
func snapshot(c *domain.Customer, kind domain.AddressKind) domain.AddressSnapshot {
	a := c.AddressFor(kind)
	if a == nil {
		return domain.AddressSnapshot{}
	}
	snap := domain.AddressSnapshot{
		Firstname: a.Firstname,
		Lastname:  a.Lastname,
	}
	if kind == domain.AddressShipping {
		snap.Phone, snap.Email = c.SelectedShippingPhone, c.SelectedShippingEmail
	} else {
		snap.Phone, snap.Email = c.SelectedInvoicePhone, c.SelectedInvoiceEmail
	}
	if p := a.Postal; p != nil {
		snap.Line1, snap.Line2 = p.Line1, p.Line2
		snap.City, snap.State = p.City, p.State
		snap.Code, snap.Country = p.Code, p.Country
	}
	return snap
}

func orderNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
