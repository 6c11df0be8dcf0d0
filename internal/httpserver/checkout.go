package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/fragments"
	"storefront/internal/payment"
	"storefront/internal/service/account"
	"storefront/internal/service/address"
	"storefront/internal/service/checkout"
	"storefront/internal/validation"
)

type checkoutHandlers struct {
	deps Deps
}

// submitRequest is the one-page checkout form. The invoice and shipping
// namespaces arrive as prefixed field groups and are merged here.
type submitRequest struct {
	InvoiceFirstname string `form:"invoice-firstname" json:"invoice-firstname"`
	InvoiceLastname  string `form:"invoice-lastname" json:"invoice-lastname"`
	InvoiceLine1     string `form:"invoice-line1" json:"invoice-line1"`
	InvoiceLine2     string `form:"invoice-line2" json:"invoice-line2"`
	InvoiceCity      string `form:"invoice-city" json:"invoice-city"`
	InvoiceState     string `form:"invoice-state" json:"invoice-state"`
	InvoiceCode      string `form:"invoice-code" json:"invoice-code"`
	InvoiceCountry   string `form:"invoice-country" json:"invoice-country"`
	InvoicePhone     string `form:"invoice-phone" json:"invoice-phone"`
	InvoiceEmail     string `form:"invoice-email" json:"invoice-email"`

	ShippingFirstname string `form:"shipping-firstname" json:"shipping-firstname"`
	ShippingLastname  string `form:"shipping-lastname" json:"shipping-lastname"`
	ShippingLine1     string `form:"shipping-line1" json:"shipping-line1"`
	ShippingLine2     string `form:"shipping-line2" json:"shipping-line2"`
	ShippingCity      string `form:"shipping-city" json:"shipping-city"`
	ShippingState     string `form:"shipping-state" json:"shipping-state"`
	ShippingCode      string `form:"shipping-code" json:"shipping-code"`
	ShippingCountry   string `form:"shipping-country" json:"shipping-country"`
	ShippingPhone     string `form:"shipping-phone" json:"shipping-phone"`
	ShippingEmail     string `form:"shipping-email" json:"shipping-email"`

	NoShipping     bool   `form:"no_shipping" json:"no_shipping"`
	ShippingMethod string `form:"shipping_method" json:"shipping_method"`
	PaymentMethod  string `form:"payment_method" json:"payment_method"`
	Voucher        string `form:"voucher" json:"voucher"`

	BankAccountNumber string `form:"bank-account_number" json:"bank-account_number"`
	BankIdentCode     string `form:"bank-bank_identification_code" json:"bank-bank_identification_code"`
	BankName          string `form:"bank-bank_name" json:"bank-bank_name"`
	BankDepositor     string `form:"bank-depositor" json:"bank-depositor"`

	CardOwner           string `form:"card-owner" json:"card-owner"`
	CardNumber          string `form:"card-number" json:"card-number"`
	CardExpirationMonth string `form:"card-expiration_month" json:"card-expiration_month"`
	CardExpirationYear  string `form:"card-expiration_year" json:"card-expiration_year"`
	CardVerificationID  string `form:"card-verification_id" json:"card-verification_id"`
}

func (r submitRequest) toInput() checkout.SubmitInput {
	in := checkout.SubmitInput{
		Invoice: address.Input{
			Firstname: r.InvoiceFirstname,
			Lastname:  r.InvoiceLastname,
			Line1:     r.InvoiceLine1,
			Line2:     r.InvoiceLine2,
			City:      r.InvoiceCity,
			State:     r.InvoiceState,
			Code:      r.InvoiceCode,
			Country:   r.InvoiceCountry,
			Phone:     r.InvoicePhone,
			Email:     r.InvoiceEmail,
		},
		Shipping: address.Input{
			Firstname: r.ShippingFirstname,
			Lastname:  r.ShippingLastname,
			Line1:     r.ShippingLine1,
			Line2:     r.ShippingLine2,
			City:      r.ShippingCity,
			State:     r.ShippingState,
			Code:      r.ShippingCode,
			Country:   r.ShippingCountry,
			Phone:     r.ShippingPhone,
			Email:     r.ShippingEmail,
		},
		NoShipping:       r.NoShipping,
		ShippingMethodID: r.ShippingMethod,
		PaymentMethodID:  r.PaymentMethod,
		VoucherNumber:    r.Voucher,
		Bank: checkout.BankInput{
			AccountNumber:          r.BankAccountNumber,
			BankIdentificationCode: r.BankIdentCode,
			BankName:               r.BankName,
			Depositor:              r.BankDepositor,
		},
	}
	if strings.TrimSpace(r.CardNumber) != "" {
		in.Card = &payment.Card{
			Owner:           r.CardOwner,
			Number:          r.CardNumber,
			ExpirationMonth: r.CardExpirationMonth,
			ExpirationYear:  r.CardExpirationYear,
			VerificationID:  r.CardVerificationID,
		}
	}
	return in
}

// pageDoc renders the checkout state into the JSON page document: fragments
// plus the raw numbers clients need.
func pageDoc(st *checkout.State) (gin.H, error) {
	cartHTML, err := fragments.Cart(st)
	if err != nil {
		return nil, err
	}
	shippingHTML, err := fragments.Shipping(st)
	if err != nil {
		return nil, err
	}
	paymentHTML, err := fragments.Payment(st)
	if err != nil {
		return nil, err
	}
	invoiceHTML, err := fragments.Address(st.InvoiceForm, false)
	if err != nil {
		return nil, err
	}
	shippingAddrHTML, err := fragments.Address(st.ShippingForm, false)
	if err != nil {
		return nil, err
	}

	doc := gin.H{
		"cart":              cartHTML,
		"shipping":          shippingHTML,
		"payment":           paymentHTML,
		"invoice_address":   invoiceHTML,
		"shipping_address":  shippingAddrHTML,
		"country":           st.Country,
		"no_shipping":       false,
		"priceCents":        st.Totals.PriceCents,
		"taxCents":          st.Totals.TaxCents,
		"requiresBank":      st.RequiresBankAccount(),
		"requiresCard":      st.RequiresCreditCard(),
		"voucherEffective":  false,
		"voucherPriceCents": int64(0),
	}
	if v := st.Totals.Voucher; v != nil {
		doc["voucherEffective"] = v.Effective
		doc["voucherPriceCents"] = v.PriceCents
		doc["voucherMessage"] = v.Message
		doc["voucherTaxCents"] = v.TaxCents
	}
	return doc, nil
}

func (h checkoutHandlers) dispatch(c *gin.Context) {
	route, err := h.deps.Checkout.Dispatch(c.Request.Context(), identity(c))
	if err != nil {
		serverError(c, err)
		return
	}
	switch route {
	case checkout.RouteEmpty:
		c.Redirect(http.StatusSeeOther, "/checkout/empty")
	case checkout.RouteLogin:
		c.Redirect(http.StatusSeeOther, "/checkout/login")
	default:
		c.Redirect(http.StatusSeeOther, "/checkout")
	}
}

func (h checkoutHandlers) view(c *gin.Context) {
	st, err := h.deps.Checkout.View(c.Request.Context(), identity(c))
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	doc, err := pageDoc(st)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h checkoutHandlers) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors":  validation.FromBindError(err, &req),
			"message": checkout.MsgFormInvalid,
		})
		return
	}

	result, err := h.deps.Checkout.Submit(c.Request.Context(), identity(c), req.toInput())
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	if result.RedirectURL != "" {
		c.Redirect(http.StatusSeeOther, result.RedirectURL)
		return
	}

	body := gin.H{"errors": result.Errors, "message": result.Message}
	if st, verr := h.deps.Checkout.View(c.Request.Context(), identity(c)); verr == nil {
		if doc, derr := pageDoc(st); derr == nil {
			body["page"] = doc
		}
	}
	c.JSON(http.StatusBadRequest, body)
}

func (h checkoutHandlers) empty(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Your cart is empty."})
}

func (h checkoutHandlers) thankYou(c *gin.Context) {
	order, err := h.deps.Checkout.ThankYou(c.Request.Context(), identity(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no order"})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h checkoutHandlers) voucher(c *gin.Context) {
	st, err := h.deps.Checkout.ApplyVoucher(c.Request.Context(), identity(c), c.PostForm("voucher"))
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	cartHTML, err := fragments.Cart(st)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cartHTML})
}

func (h checkoutHandlers) changed(c *gin.Context) {
	in := checkout.ChangedInput{
		ShippingMethodID: c.PostForm("shipping_method"),
		PaymentMethodID:  c.PostForm("payment_method"),
		Country:          c.PostForm("country"),
	}
	st, err := h.deps.Checkout.Changed(c.Request.Context(), identity(c), in)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	cartHTML, err := fragments.Cart(st)
	if err != nil {
		serverError(c, err)
		return
	}
	shippingHTML, err := fragments.Shipping(st)
	if err != nil {
		serverError(c, err)
		return
	}
	paymentHTML, err := fragments.Payment(st)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shipping": shippingHTML,
		"payment":  paymentHTML,
		"cart":     cartHTML,
	})
}

func (h checkoutHandlers) invoiceCountry(c *gin.Context) {
	h.countryChanged(c, domain.AddressInvoice, "invoice_address")
}

func (h checkoutHandlers) shippingCountry(c *gin.Context) {
	h.countryChanged(c, domain.AddressShipping, "shipping_address")
}

func (h checkoutHandlers) countryChanged(c *gin.Context, kind domain.AddressKind, key string) {
	st, err := h.deps.Checkout.CountryChanged(c.Request.Context(), identity(c), kind, c.PostForm("country"))
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	form := st.InvoiceForm
	if kind == domain.AddressShipping {
		form = st.ShippingForm
	}
	html, err := fragments.Address(form, true)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: html})
}

// checkout-scoped login: both actions land back on the checkout page.

type credentialsRequest struct {
	Action   string `form:"action" json:"action"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h checkoutHandlers) loginPage(c *gin.Context) {
	shop, err := h.deps.Shops.Get(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checkoutType":  shop.CheckoutType,
		"anonymousOK":   shop.CheckoutType != domain.CheckoutTypeAuth,
		"actions":       []string{"login", "register"},
		"authenticated": identity(c).User != nil,
	})
}

func (h checkoutHandlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}

	ident := identity(c)
	ctx := c.Request.Context()
	var err error
	if req.Action == "register" {
		_, err = h.deps.Account.Register(ctx, ident, req.Email, req.Password)
	} else {
		_, err = h.deps.Account.Login(ctx, ident, req.Email, req.Password)
	}
	if err != nil {
		status, errs := accountErrorBody(err)
		c.JSON(status, gin.H{"errors": errs})
		return
	}
	c.Redirect(http.StatusSeeOther, "/checkout")
}

func (h checkoutHandlers) checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.Redirect(http.StatusSeeOther, "/checkout/empty")
	case errors.Is(err, checkout.ErrLoginRequired):
		c.Redirect(http.StatusSeeOther, "/checkout/login")
	default:
		serverError(c, err)
	}
}

func accountErrorBody(err error) (int, validation.FieldErrors) {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusBadRequest, validation.FieldErrors{"_": "Invalid e-mail or password."}
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusBadRequest, validation.FieldErrors{"email": "This e-mail is already registered."}
	default:
		return http.StatusInternalServerError, validation.FieldErrors{"_": "Something went wrong."}
	}
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
