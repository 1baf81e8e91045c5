// Package pricing computes order totals from a cart subtotal. All
// functions are pure; amounts keep full precision and are rounded to
// two decimals only when building the presented breakdown.
package pricing

import "github.com/shopspring/decimal"

type Calculator struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Defaults mirror the storefront's standard policy: 8% tax, 5.99 flat
// shipping waived at a 50.00 subtotal.
func DefaultCalculator() Calculator {
	return Calculator{
		TaxRate:               decimal.RequireFromString("0.08"),
		ShippingFee:           decimal.RequireFromString("5.99"),
		FreeShippingThreshold: decimal.NewFromInt(50),
	}
}

type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Shipping returns the fee for the given subtotal. An empty cart ships
// for free: no fee is charged on nothing.
func (c Calculator) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(c.FreeShippingThreshold) {
		return decimal.Zero
	}
	return c.ShippingFee
}

func (c Calculator) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.TaxRate)
}

// Totals computes the full breakdown for a subtotal, rounded to two
// decimals for presentation.
func (c Calculator) Totals(subtotal decimal.Decimal) Breakdown {
	shipping := c.Shipping(subtotal)
	tax := c.Tax(subtotal)
	total := subtotal.Add(shipping).Add(tax)

	return Breakdown{
		Subtotal: subtotal.Round(2),
		Shipping: shipping.Round(2),
		Tax:      tax.Round(2),
		Total:    total.Round(2),
	}
}
