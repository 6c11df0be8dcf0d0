// Package fragments renders the checkout page fragments to HTML strings for
// the partial-refresh endpoints and the page documents.
package fragments

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"storefront/internal/service/address"
	"storefront/internal/service/checkout"
)

//go:embed templates/*.html
var files embed.FS

var tmpl = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"money": Money,
}).ParseFS(files, "templates/*.html"))

// Money formats cents as a decimal amount, e.g. 11100 -> "111.00".
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Cart renders the cart fragment: lines, method costs, the voucher row and
// the grand total.
func Cart(st *checkout.State) (string, error) {
	return render("cart.html", st)
}

// Shipping renders the shipping method choice fragment.
func Shipping(st *checkout.State) (string, error) {
	return render("shipping.html", st)
}

// Payment renders the payment method choice fragment.
func Payment(st *checkout.State) (string, error) {
	return render("payment.html", st)
}

// Address renders one address form fragment. Validation errors are left out
// when suppress is set (background refreshes must not flash errors).
func Address(form address.Form, suppress bool) (string, error) {
	if suppress {
		form.Errors = nil
	}
	return render("address.html", form)
}
