package domain

import "context"

// PriceCalculator is the per-product pricing strategy contract. Shops plug in
// their own implementation to override catalog pricing; no implementation
// ships with this service.
type PriceCalculator interface {
	StandardPrice(ctx context.Context, p Product, withProperties bool) (Costs, error)
	Price(ctx context.Context, p Product, withProperties bool) (Costs, error)
	ForSalePrice(ctx context.Context, p Product) (Costs, error)
	PriceGross(ctx context.Context, p Product) (int64, error)
	PriceNet(ctx context.Context, p Product) (int64, error)
	CalculatePrice(ctx context.Context, p Product, priceCents int64) (int64, error)
}
