package domain

import "time"

type Product struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	TaxRate    float64   `json:"taxRate"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}
