package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/validation"
)

type cartHandlers struct {
	deps Deps
}

func (h cartHandlers) customerID(c *gin.Context) (string, error) {
	customer, err := h.deps.Customers.Peek(c.Request.Context(), identity(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return customer.ID, nil
}

func (h cartHandlers) get(c *gin.Context) {
	customerID, err := h.customerID(c)
	if err != nil {
		serverError(c, err)
		return
	}
	cart, err := h.deps.Carts.Get(c.Request.Context(), identity(c), customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"cart": domain.Cart{}})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

type addItemRequest struct {
	SKU      string `form:"sku" json:"sku" binding:"required"`
	Quantity int    `form:"quantity" json:"quantity" binding:"required,min=1"`
}

func (h cartHandlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FromBindError(err, &req)})
		return
	}
	customerID, err := h.customerID(c)
	if err != nil {
		serverError(c, err)
		return
	}
	cart, err := h.deps.Carts.AddItem(c.Request.Context(), identity(c), customerID, req.SKU, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}
