package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/payment"
	tokenrepo "storefront/internal/repository/token"
	"storefront/internal/service/account"
	"storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/checkout"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/service/methods"
	"storefront/internal/service/pricing"
	"storefront/internal/service/session"
	vouchersvc "storefront/internal/service/voucher"
)

// In-memory backends. Just enough behavior for the handlers under test.

type memShopRepo struct {
	shop domain.Shop
}

func (m *memShopRepo) Get(context.Context) (*domain.Shop, error) {
	shop := m.shop
	return &shop, nil
}

type memTokenRepo struct {
	tokens map[string]*tokenrepo.Token
}

func (m *memTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = &t
	return nil
}

func (m *memTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (m *memTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := m.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tokens, token)
	return nil
}

func (m *memTokenRepo) AttachUser(_ context.Context, token, userID string) error {
	t, ok := m.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	t.UserID = &userID
	return nil
}

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func (m *memUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, stored := range m.users {
		if stored.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	m.users[u.ID] = &u
	out := u
	return &out, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *memUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Email = email
	return nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memCustomerRepo struct {
	seq       int
	customers map[string]*domain.Customer
	addresses map[string]*domain.Address
	postals   map[string]*domain.PostalAddress
	banks     map[string]*domain.BankAccount
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{
		customers: map[string]*domain.Customer{},
		addresses: map[string]*domain.Address{},
		postals:   map[string]*domain.PostalAddress{},
		banks:     map[string]*domain.BankAccount{},
	}
}

func (m *memCustomerRepo) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memCustomerRepo) GetBySession(_ context.Context, sessionID string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.SessionID != nil && *c.SessionID == sessionID && c.UserID == nil {
			return m.hydrate(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomerRepo) GetByUser(_ context.Context, userID string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.UserID != nil && *c.UserID == userID {
			return m.hydrate(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomerRepo) hydrate(c *domain.Customer) *domain.Customer {
	out := *c
	if out.SelectedInvoiceAddressID != nil {
		out.SelectedInvoiceAddress = m.addresses[*out.SelectedInvoiceAddressID]
	}
	if out.SelectedShippingAddressID != nil {
		out.SelectedShippingAddress = m.addresses[*out.SelectedShippingAddressID]
	}
	return &out
}

func (m *memCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	c.ID = m.nextID("cust")
	m.customers[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	stored := *c
	m.customers[c.ID] = &stored
	return nil
}

func (m *memCustomerRepo) AttachUser(_ context.Context, customerID, userID string) error {
	c, ok := m.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	c.UserID = &userID
	c.SessionID = nil
	return nil
}

func (m *memCustomerRepo) Delete(_ context.Context, customerID string) error {
	delete(m.customers, customerID)
	return nil
}

func (m *memCustomerRepo) GetOrCreatePostal(_ context.Context, p domain.PostalAddress) (*domain.PostalAddress, error) {
	hash := p.HashContent()
	for _, stored := range m.postals {
		if stored.ContentHash == hash {
			out := *stored
			return &out, nil
		}
	}
	p.ID = m.nextID("postal")
	p.ContentHash = hash
	m.postals[p.ID] = &p
	out := p
	return &out, nil
}

func (m *memCustomerRepo) SaveAddress(_ context.Context, a domain.Address) (*domain.Address, error) {
	if a.ID == "" {
		a.ID = m.nextID("addr")
	}
	stored := a
	stored.Postal = m.postals[a.PostalAddressID]
	m.addresses[a.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memCustomerRepo) GetAddress(_ context.Context, id string) (*domain.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (m *memCustomerRepo) CreateBankAccount(_ context.Context, b domain.BankAccount) (*domain.BankAccount, error) {
	b.ID = m.nextID("bank")
	m.banks[b.ID] = &b
	out := b
	return &out, nil
}

func (m *memCustomerRepo) GetBankAccount(_ context.Context, id string) (*domain.BankAccount, error) {
	b, ok := m.banks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *b
	return &out, nil
}

type memCartRepo struct {
	seq   int
	carts map[string]*domain.Cart
}

func (m *memCartRepo) GetBySession(_ context.Context, sessionID string) (*domain.Cart, error) {
	for _, c := range m.carts {
		if c.SessionID != nil && *c.SessionID == sessionID {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCartRepo) GetByCustomer(_ context.Context, customerID string) (*domain.Cart, error) {
	for _, c := range m.carts {
		if c.CustomerID != nil && *c.CustomerID == customerID {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCartRepo) Create(_ context.Context, c domain.Cart) (*domain.Cart, error) {
	m.seq++
	c.ID = fmt.Sprintf("cart-%d", m.seq)
	m.carts[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memCartRepo) AddLine(_ context.Context, cartID string, line domain.CartLine) error {
	c, ok := m.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			c.Lines[i].TotalCents += line.TotalCents
			return nil
		}
	}
	c.Lines = append(c.Lines, line)
	return nil
}

func (m *memCartRepo) SetVoucherNumber(_ context.Context, cartID, number string) error {
	c, ok := m.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	c.VoucherNumber = number
	return nil
}

func (m *memCartRepo) AssignCustomer(_ context.Context, cartID, customerID string) error {
	c, ok := m.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CustomerID = &customerID
	c.SessionID = nil
	return nil
}

func (m *memCartRepo) Delete(_ context.Context, cartID string) error {
	delete(m.carts, cartID)
	return nil
}

type memProductRepo struct {
	products []domain.Product
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProductRepo) Upsert(context.Context, domain.Product) error { return nil }

type memMethodRepo struct {
	shipping []domain.Method
	payments []domain.Method
}

func (m *memMethodRepo) ListShipping(context.Context) ([]domain.Method, error) {
	return m.shipping, nil
}

func (m *memMethodRepo) ListPayment(context.Context) ([]domain.Method, error) {
	return m.payments, nil
}

func (m *memMethodRepo) GetShipping(_ context.Context, id string) (*domain.Method, error) {
	return findIn(m.shipping, id)
}

func (m *memMethodRepo) GetPayment(_ context.Context, id string) (*domain.Method, error) {
	return findIn(m.payments, id)
}

func findIn(list []domain.Method, id string) (*domain.Method, error) {
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type memVoucherRepo struct {
	vouchers map[string]domain.Voucher
}

func (m *memVoucherRepo) GetByNumber(_ context.Context, number string) (*domain.Voucher, error) {
	v, ok := m.vouchers[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (m *memVoucherRepo) Upsert(context.Context, domain.Voucher) error { return nil }

type memOrderRepo struct {
	seq    int
	orders []domain.Order
	carts  *memCartRepo
}

func (m *memOrderRepo) Create(_ context.Context, o domain.Order, _, cartID string) (*domain.Order, error) {
	m.seq++
	o.ID = fmt.Sprintf("order-%d", m.seq)
	m.orders = append(m.orders, o)
	if cartID != "" {
		delete(m.carts.carts, cartID)
	}
	out := o
	return &out, nil
}

func (m *memOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) GetByIDForUser(_ context.Context, id, userID string) (*domain.Order, error) {
	for _, o := range m.orders {
		if o.ID == id && o.UserID != nil && *o.UserID == userID {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOrderRepo) GetLatest(_ context.Context, sessionID, userID string) (*domain.Order, error) {
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if userID != "" && o.UserID != nil && *o.UserID == userID {
			return &o, nil
		}
		if o.SessionID != nil && *o.SessionID == sessionID {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- fixture ---

type app struct {
	router    http.Handler
	token     string
	orderRepo *memOrderRepo
	shopRepo  *memShopRepo
}

func newApp(t *testing.T) *app {
	t.Helper()

	shopRepo := &memShopRepo{shop: domain.Shop{
		ID:                "shop-1",
		CheckoutType:      domain.CheckoutTypeSelect,
		DefaultCountry:    "US",
		InvoiceCountries:  []string{"US", "DE"},
		ShippingCountries: []string{"US", "DE"},
		AddressL10N:       true,
		Line1Visible:      true,
		Line2Visible:      true,
		PayPalRedirect:    true,
	}}
	tokenRepo := &memTokenRepo{tokens: map[string]*tokenrepo.Token{}}
	userRepo := &memUserRepo{users: map[string]*domain.User{}}
	custRepo := newMemCustomerRepo()
	cartRepo := &memCartRepo{carts: map[string]*domain.Cart{}}
	productRepo := &memProductRepo{products: []domain.Product{
		{ID: "p1", SKU: "SKU-1", Name: "Demo", PriceCents: 5000, TaxRate: 19, Currency: "USD", Active: true},
	}}
	methodRepo := &memMethodRepo{
		shipping: []domain.Method{
			{ID: "std", Name: "Standard", Active: true, Priority: 1, PriceCents: 1000, TaxRate: 19},
		},
		payments: []domain.Method{
			{ID: "pre", Name: "Prepayment", Kind: domain.PaymentPrepayment, Active: true, Priority: 1, PriceCents: 100, TaxRate: 19},
		},
	}
	voucherRepo := &memVoucherRepo{vouchers: map[string]domain.Voucher{
		"SAVE10": {ID: "v1", Number: "SAVE10", Kind: domain.VoucherAbsolute, ValueCents: 1000, TaxRate: 19, Active: true},
	}}
	orderRepo := &memOrderRepo{carts: cartRepo}

	sessions := session.New(tokenRepo, userRepo)
	customers := customersvc.New(custRepo)
	carts := cartsvc.New(cartRepo, productRepo)
	methodsSvc := methods.New(methodRepo)
	addresses := address.New(custRepo)

	deps := Deps{
		Sessions:  sessions,
		Customers: customers,
		Carts:     carts,
		Addresses: addresses,
		Checkout: checkout.New(
			shopRepo, custRepo, customers, carts, orderRepo, addresses,
			methodsSvc, pricing.New(methodsSvc, vouchersvc.New(voucherRepo)),
			payment.NewRegistry(), "http://shop.test",
		),
		Account:      account.New(userRepo, orderRepo, sessions, customers, carts, nil),
		Shops:        shopRepo,
		CustomerRepo: custRepo,
	}

	logger := log.New(io.Discard, "", 0)
	token, err := sessions.Begin(context.Background())
	require.NoError(t, err)

	return &app{
		router:    buildRouter(logger, nil, deps),
		token:     token,
		orderRepo: orderRepo,
		shopRepo:  shopRepo,
	}
}

func (a *app) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) addDemoItem(t *testing.T) {
	t.Helper()
	w := a.postForm("/cart/items", url.Values{"sku": {"SKU-1"}, "quantity": {"2"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func checkoutForm() url.Values {
	return url.Values{
		"invoice-firstname": {"Jane"},
		"invoice-lastname":  {"Doe"},
		"invoice-line1":     {"1 Main St"},
		"invoice-city":      {"Springfield"},
		"invoice-state":     {"IL"},
		"invoice-code":      {"12345"},
		"invoice-country":   {"US"},
		"no_shipping":       {"true"},
		"shipping_method":   {"std"},
		"payment_method":    {"pre"},
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- tests ---

func TestHealthz(t *testing.T) {
	a := newApp(t)
	w := a.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestReadyzWithoutDB(t *testing.T) {
	a := newApp(t)
	w := a.get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionIssuedOnFirstContact(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Session-Token"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session=")
}

func TestCartAddAndGet(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.get("/cart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo")

	// Unknown SKU is a client error.
	w = a.postForm("/cart/items", url.Values{"sku": {"NOPE"}, "quantity": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartAddItemValidation(t *testing.T) {
	a := newApp(t)
	w := a.postForm("/cart/items", url.Values{"quantity": {"1"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sku")
}

func TestDispatch(t *testing.T) {
	a := newApp(t)

	w := a.get("/checkout/dispatch")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/empty", w.Header().Get("Location"))

	a.addDemoItem(t)
	w = a.get("/checkout/dispatch")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/login", w.Header().Get("Location"))

	a.shopRepo.shop.CheckoutType = domain.CheckoutTypeAnon
	w = a.get("/checkout/dispatch")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout", w.Header().Get("Location"))
}

func TestCheckoutViewRedirectsWhenCartEmpty(t *testing.T) {
	a := newApp(t)
	w := a.get("/checkout")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/empty", w.Header().Get("Location"))
}

func TestCheckoutViewRequiresLoginOnAuthShop(t *testing.T) {
	a := newApp(t)
	a.shopRepo.shop.CheckoutType = domain.CheckoutTypeAuth
	a.addDemoItem(t)

	w := a.get("/checkout")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/login", w.Header().Get("Location"))
}

func TestCheckoutViewPageDoc(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.get("/checkout")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.Contains(t, body["cart"], "Demo")
	assert.Contains(t, body["shipping"], "Standard")
	assert.Contains(t, body["payment"], "Prepayment")
	assert.Contains(t, body["invoice_address"], "invoice-firstname")
	assert.Equal(t, "US", body["country"])
	// 2x 50.00 cart + 10.00 shipping + 1.00 payment fee.
	assert.EqualValues(t, 11100, body["priceCents"])
}

func TestVoucherFragment(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.postForm("/checkout/voucher", url.Values{"voucher": {"SAVE10"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Contains(t, body["cart"], "SAVE10")
	assert.Contains(t, body["cart"], "101.00")

	w = a.postForm("/checkout/voucher", url.Values{"voucher": {"NOPE"}})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Contains(t, body["cart"], domain.MsgVoucherNotFound)
}

func TestChangedFragments(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.postForm("/checkout/changed", url.Values{"shipping_method": {"std"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Contains(t, body, "cart")
	assert.Contains(t, body, "shipping")
	assert.Contains(t, body, "payment")
}

func TestCountryChangeSuppressesErrors(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.postForm("/checkout/country/invoice", url.Values{"country": {"DE"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	html, _ := body["invoice_address"].(string)
	assert.Contains(t, html, `value="DE" selected`)
	assert.NotContains(t, html, "This field is required.")
}

func TestSubmitCreatesOrder(t *testing.T) {
	a := newApp(t)
	a.shopRepo.shop.CheckoutType = domain.CheckoutTypeAnon
	a.addDemoItem(t)

	w := a.postForm("/checkout", checkoutForm())
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "http://shop.test/checkout/thank-you", w.Header().Get("Location"))
	require.Len(t, a.orderRepo.orders, 1)
	assert.EqualValues(t, 11100, a.orderRepo.orders[0].TotalCents)

	// The cart was consumed; checkout is empty again.
	w = a.get("/checkout")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.get("/checkout/thank-you")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), a.orderRepo.orders[0].Number)
}

func TestSubmitInvalidFormReturnsErrors(t *testing.T) {
	a := newApp(t)
	a.shopRepo.shop.CheckoutType = domain.CheckoutTypeAnon
	a.addDemoItem(t)

	form := checkoutForm()
	form.Del("invoice-firstname")
	w := a.postForm("/checkout", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	errs, _ := body["errors"].(map[string]any)
	assert.Contains(t, errs, "invoice-firstname")
	assert.Equal(t, checkout.MsgFormInvalid, body["message"])
	assert.Contains(t, body, "page")
	assert.Empty(t, a.orderRepo.orders)
}

func TestThankYouWithoutOrder(t *testing.T) {
	a := newApp(t)
	w := a.get("/checkout/thank-you")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountRequiresUser(t *testing.T) {
	a := newApp(t)
	w := a.get("/account/orders")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=/account/orders", w.Header().Get("Location"))
}

func TestRegisterThenAccount(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)

	w := a.postForm("/checkout/login", url.Values{
		"action":   {"register"},
		"email":    {"jane@example.com"},
		"password": {"secret-pw"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/checkout", w.Header().Get("Location"))

	w = a.get("/account")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")

	w = a.get("/account/orders")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newApp(t)
	w := a.postForm("/login", url.Values{
		"email":    {"jane@example.com"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid e-mail or password.")
}

func TestLoginValidation(t *testing.T) {
	a := newApp(t)
	w := a.postForm("/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}

func TestLogoutClearsSession(t *testing.T) {
	a := newApp(t)
	w := a.postForm("/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session=;")
}

func TestAccountAddresses(t *testing.T) {
	a := newApp(t)
	a.addDemoItem(t)
	w := a.postForm("/checkout/login", url.Values{
		"action":   {"register"},
		"email":    {"jane@example.com"},
		"password": {"secret-pw"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = a.get("/account/addresses")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "invoice_address")
	assert.Contains(t, body, "shipping_address")

	form := url.Values{
		"invoice-firstname":  {"Jane"},
		"invoice-lastname":   {"Doe"},
		"invoice-line1":      {"1 Main St"},
		"invoice-city":       {"Springfield"},
		"invoice-state":      {"IL"},
		"invoice-code":       {"12345"},
		"invoice-country":    {"US"},
		"shipping-firstname": {"Jane"},
		"shipping-lastname":  {"Doe"},
		"shipping-line1":     {"2 Oak Ave"},
		"shipping-city":      {"Springfield"},
		"shipping-state":     {"IL"},
		"shipping-code":      {"12345"},
		"shipping-country":   {"US"},
	}
	w = a.postForm("/account/addresses", form)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = a.get("/account/addresses")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Contains(t, body["shipping_address"], "2 Oak Ave")
}
