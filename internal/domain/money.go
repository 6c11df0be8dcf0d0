package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// IncludedTaxCents returns the tax share contained in a gross amount at the
// given percentage rate: gross - gross / (1 + rate/100), rounded to cents.
func IncludedTaxCents(grossCents int64, rate float64) int64 {
	if grossCents == 0 || rate <= 0 {
		return 0
	}
	gross := decimal.NewFromInt(grossCents)
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate).Div(hundred))
	net := gross.Div(divisor)
	return gross.Sub(net).Round(0).IntPart()
}

// PercentageCents returns pct percent of an amount, rounded to cents.
func PercentageCents(amountCents int64, pct float64) int64 {
	if amountCents == 0 || pct <= 0 {
		return 0
	}
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Round(0).
		IntPart()
}
