package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(price string, quantity int) CartItem {
	return CartItem{Price: decimal.RequireFromString(price), Quantity: quantity}
}

func TestComputeTotalsSubtotalIsExactSum(t *testing.T) {
	t.Parallel()

	items := []CartItem{
		item("499", 2),
		item("349.50", 3),
		item("0.10", 7),
	}

	subtotal, _, _, _ := computeTotals(items, decimal.Zero)

	// 998 + 1048.50 + 0.70
	if want := decimal.RequireFromString("2047.20"); !subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, subtotal)
	}
}

func TestComputeTotalsTaxIsFlatEighteenPercent(t *testing.T) {
	t.Parallel()

	_, tax, _, _ := computeTotals([]CartItem{item("100", 1)}, decimal.Zero)
	if want := decimal.NewFromInt(18); !tax.Equal(want) {
		t.Fatalf("expected tax %s, got %s", want, tax)
	}

	_, tax, _, _ = computeTotals([]CartItem{item("0.50", 1)}, decimal.Zero)
	if want := decimal.RequireFromString("0.09"); !tax.Equal(want) {
		t.Fatalf("expected exact 18%% of 0.50 = %s, got %s", want, tax)
	}
}

func TestComputeTotalsShippingBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtotal string
		shipping string
	}{
		{subtotal: "1000", shipping: "0"},
		{subtotal: "999.01", shipping: "0"},
		{subtotal: "999", shipping: "99"},
		{subtotal: "0", shipping: "99"},
	}

	for _, tc := range cases {
		var items []CartItem
		if tc.subtotal != "0" {
			items = []CartItem{item(tc.subtotal, 1)}
		}
		_, _, shipping, _ := computeTotals(items, decimal.Zero)
		if want := decimal.RequireFromString(tc.shipping); !shipping.Equal(want) {
			t.Fatalf("subtotal %s: expected shipping %s, got %s", tc.subtotal, want, shipping)
		}
	}
}

func TestComputeTotalsIdentityHoldsForAnyDiscount(t *testing.T) {
	t.Parallel()

	items := []CartItem{item("250", 2), item("125.25", 1)}

	for _, discount := range []string{"0", "50", "123.45", "10000"} {
		d := decimal.RequireFromString(discount)
		subtotal, tax, shipping, total := computeTotals(items, d)
		if want := subtotal.Add(tax).Add(shipping).Sub(d); !total.Equal(want) {
			t.Fatalf("discount %s: expected total %s, got %s", discount, want, total)
		}
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	t.Parallel()

	subtotal, tax, shipping, total := computeTotals(nil, decimal.Zero)
	if !subtotal.IsZero() || !tax.IsZero() {
		t.Fatalf("expected zero subtotal and tax, got %s / %s", subtotal, tax)
	}
	if want := decimal.NewFromInt(99); !shipping.Equal(want) {
		t.Fatalf("empty cart still ships at the flat fee, got %s", shipping)
	}
	if want := decimal.NewFromInt(99); !total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, total)
	}
}
