package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostalAddressHashContent(t *testing.T) {
	a := PostalAddress{Line1: "1 Main St", City: "Springfield", Code: "12345", Country: "US"}

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		b := PostalAddress{Line1: "  1 MAIN st ", City: "springfield", Code: "12345 ", Country: "us"}
		assert.Equal(t, a.HashContent(), b.HashContent())
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		// "1 Main St"+"" must not collide with "1 Main"+"St".
		b := PostalAddress{Line1: "1 Main", Line2: "St", City: "Springfield", Code: "12345", Country: "US"}
		assert.NotEqual(t, a.HashContent(), b.HashContent())
	})

	t.Run("different content differs", func(t *testing.T) {
		b := a
		b.Code = "54321"
		assert.NotEqual(t, a.HashContent(), b.HashContent())
	})
}

func TestCustomerAddressFor(t *testing.T) {
	invoice := &Address{ID: "inv"}
	shipping := &Address{ID: "shp"}
	c := &Customer{SelectedInvoiceAddress: invoice, SelectedShippingAddress: shipping}

	assert.Same(t, invoice, c.AddressFor(AddressInvoice))
	assert.Same(t, shipping, c.AddressFor(AddressShipping))
}
