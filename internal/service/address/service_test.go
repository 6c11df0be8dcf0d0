package address

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func testShop() *domain.Shop {
	return &domain.Shop{
		DefaultCountry:    "US",
		InvoiceCountries:  []string{"US", "GB", "DE"},
		ShippingCountries: []string{"US", "DE"},
		AddressL10N:       true,
		Line1Visible:      true,
		Line2Visible:      true,
	}
}

func TestResolveCountryPrecedence(t *testing.T) {
	shop := testShop()
	stored := &domain.Customer{
		SelectedShippingAddress: &domain.Address{Postal: &domain.PostalAddress{Country: "DE"}},
	}

	t.Run("submitted wins", func(t *testing.T) {
		assert.Equal(t, "GB", ResolveCountry(shop, stored, "GB", domain.AddressShipping))
	})
	t.Run("stored address next", func(t *testing.T) {
		assert.Equal(t, "DE", ResolveCountry(shop, stored, "", domain.AddressShipping))
	})
	t.Run("shop default last", func(t *testing.T) {
		assert.Equal(t, "US", ResolveCountry(shop, &domain.Customer{}, "", domain.AddressShipping))
	})
}

func TestFormForLineVisibility(t *testing.T) {
	shop := testShop()
	shop.Line1Visible = false
	shop.Line2Visible = false

	form := FormFor(shop, &domain.Customer{}, domain.AddressInvoice, "US")
	for _, f := range form.Fields {
		assert.NotEqual(t, "line1", f.Name)
		assert.NotEqual(t, "line2", f.Name)
	}
}

func TestFormForLocalization(t *testing.T) {
	shop := testShop()

	us := FormFor(shop, &domain.Customer{}, domain.AddressInvoice, "US")
	assert.Equal(t, "Zip Code", fieldLabel(us, "code"))
	assert.True(t, fieldRequired(us, "state"))

	gb := FormFor(shop, &domain.Customer{}, domain.AddressInvoice, "GB")
	assert.Equal(t, "Postcode", fieldLabel(gb, "code"))
	assert.Equal(t, "County", fieldLabel(gb, "state"))
	assert.False(t, fieldRequired(gb, "state"))

	shop.AddressL10N = false
	generic := FormFor(shop, &domain.Customer{}, domain.AddressInvoice, "US")
	assert.Equal(t, "Postal Code", fieldLabel(generic, "code"))
	assert.False(t, fieldRequired(generic, "state"))
}

func TestFormForCountryAllowList(t *testing.T) {
	form := FormFor(testShop(), &domain.Customer{}, domain.AddressShipping, "US")
	assert.Equal(t, []string{"US", "DE"}, form.Countries)
}

func TestValidate(t *testing.T) {
	shop := testShop()

	t.Run("complete input passes", func(t *testing.T) {
		errs := Validate(shop, domain.AddressInvoice, Input{
			Firstname: "Jane", Lastname: "Doe",
			Line1: "1 Main St", City: "Springfield", State: "IL", Code: "12345", Country: "US",
		})
		assert.Empty(t, errs)
	})

	t.Run("missing fields are namespaced", func(t *testing.T) {
		errs := Validate(shop, domain.AddressShipping, Input{Country: "US", State: "IL"})
		assert.Contains(t, errs, "shipping-firstname")
		assert.Contains(t, errs, "shipping-city")
		assert.NotContains(t, errs, "shipping-country")
	})

	t.Run("country outside allow-list", func(t *testing.T) {
		errs := Validate(shop, domain.AddressShipping, Input{
			Firstname: "Jane", Lastname: "Doe",
			Line1: "1 Main St", City: "Berlin", Code: "10115", Country: "GB",
		})
		assert.Contains(t, errs, "shipping-country")
	})

	t.Run("hidden line1 not required", func(t *testing.T) {
		shop := testShop()
		shop.Line1Visible = false
		errs := Validate(shop, domain.AddressInvoice, Input{
			Firstname: "Jane", Lastname: "Doe",
			City: "Springfield", State: "IL", Code: "12345", Country: "US",
		})
		assert.Empty(t, errs)
	})
}

func fieldLabel(f Form, name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Label
		}
	}
	return ""
}

func fieldRequired(f Form, name string) bool {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Required
		}
	}
	return false
}
