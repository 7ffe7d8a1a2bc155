package cart

import "github.com/shopspring/decimal"

// Totals rules mirror the storefront's checkout math: flat 18% tax, free
// shipping strictly above 999, otherwise a flat 99 fee.
var (
	taxRate               = decimal.NewFromFloat(0.18)
	freeShippingThreshold = decimal.NewFromInt(999)
	flatShippingFee       = decimal.NewFromInt(99)
)

// computeTotals derives the money fields from the current items. The discount
// is an input only; it is never recomputed here.
func computeTotals(items []CartItem, discount decimal.Decimal) (subtotal, tax, shipping, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tax = subtotal.Mul(taxRate)

	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	} else {
		shipping = flatShippingFee
	}

	total = subtotal.Add(tax).Add(shipping).Sub(discount)
	return subtotal, tax, shipping, total
}
