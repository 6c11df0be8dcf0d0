package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/fragments"
	"storefront/internal/service/account"
	"storefront/internal/service/address"
	"storefront/internal/validation"
)

type accountHandlers struct {
	deps Deps
}

func (h accountHandlers) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"next":          account.SafeNext(c.Query("next"), "/"),
		"authenticated": identity(c).User != nil,
	})
}

type loginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

func (h accountHandlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}
	if _, err := h.deps.Account.Login(c.Request.Context(), identity(c), req.Email, req.Password); err != nil {
		status, errs := accountErrorBody(err)
		c.JSON(status, gin.H{"errors": errs})
		return
	}
	c.Redirect(http.StatusSeeOther, account.SafeNext(req.Next, "/"))
}

func (h accountHandlers) logout(c *gin.Context) {
	if err := h.deps.Account.Logout(c.Request.Context(), identity(c)); err != nil {
		serverError(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h accountHandlers) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": identity(c).User})
}

func (h accountHandlers) orders(c *gin.Context) {
	orders, err := h.deps.Account.Orders(c.Request.Context(), identity(c).UserID())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h accountHandlers) order(c *gin.Context) {
	o, err := h.deps.Account.Order(c.Request.Context(), c.Param("id"), identity(c).UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h accountHandlers) addressesPage(c *gin.Context) {
	ctx := c.Request.Context()
	shop, err := h.deps.Shops.Get(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	customer, err := h.deps.Customers.For(ctx, identity(c))
	if err != nil {
		serverError(c, err)
		return
	}

	invoiceForm := address.FormFor(shop, customer, domain.AddressInvoice,
		address.ResolveCountry(shop, customer, "", domain.AddressInvoice))
	shippingForm := address.FormFor(shop, customer, domain.AddressShipping,
		address.ResolveCountry(shop, customer, "", domain.AddressShipping))

	invoiceHTML, err := fragments.Address(invoiceForm, false)
	if err != nil {
		serverError(c, err)
		return
	}
	shippingHTML, err := fragments.Address(shippingForm, false)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoice_address":  invoiceHTML,
		"shipping_address": shippingHTML,
	})
}

// saveAddresses persists both namespaces from the account addresses form.
func (h accountHandlers) saveAddresses(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}
	in := req.toInput()

	ctx := c.Request.Context()
	shop, err := h.deps.Shops.Get(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	errs := validation.FieldErrors(address.Validate(shop, domain.AddressInvoice, in.Invoice)).
		Merge(address.Validate(shop, domain.AddressShipping, in.Shipping))
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	customer, err := h.deps.Customers.For(ctx, identity(c))
	if err != nil {
		serverError(c, err)
		return
	}
	if err := h.deps.Addresses.Persist(ctx, customer, domain.AddressInvoice, in.Invoice); err != nil {
		serverError(c, err)
		return
	}
	if err := h.deps.Addresses.Persist(ctx, customer, domain.AddressShipping, in.Shipping); err != nil {
		serverError(c, err)
		return
	}
	if err := h.deps.CustomerRepo.Save(ctx, customer); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/account/addresses")
}

func (h accountHandlers) emailPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": identity(c).User.Email})
}

type emailRequest struct {
	Password string `form:"password" json:"password" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
}

func (h accountHandlers) saveEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}
	err := h.deps.Account.ChangeEmail(c.Request.Context(), identity(c).User, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FieldErrors{"password": "Wrong password."}})
		case errors.Is(err, account.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FieldErrors{"email": "This e-mail is already registered."}})
		default:
			serverError(c, err)
		}
		return
	}
	c.Redirect(http.StatusSeeOther, "/account")
}

func (h accountHandlers) passwordPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

type passwordRequest struct {
	OldPassword string `form:"old_password" json:"old_password" binding:"required"`
	NewPassword string `form:"new_password" json:"new_password" binding:"required,min=8"`
}

func (h accountHandlers) savePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}
	err := h.deps.Account.ChangePassword(c.Request.Context(), identity(c).User, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, account.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FieldErrors{"old_password": "Wrong password."}})
			return
		}
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/account")
}
