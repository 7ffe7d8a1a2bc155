package stubserver_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aritzhuerta/storefront-cart/internal/cart"
	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
	"github.com/aritzhuerta/storefront-cart/internal/stubserver"
	"github.com/aritzhuerta/storefront-cart/pkg/config"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
	"github.com/aritzhuerta/storefront-cart/pkg/metrics"
)

func newStack(t *testing.T) (*cart.Store, func()) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	server := httptest.NewServer(stubserver.NewServer(logg).Router())

	client, err := cartapi.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)

	store, err := cart.NewStore(client, logg, metrics.NewOperationMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)

	return store, server.Close
}

func TestAddFetchUpdateRemoveRoundTrip(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-classic-tee", Quantity: 2, Size: "M", Color: "black",
	}))

	state := store.Snapshot()
	require.Len(t, state.Items, 1)
	require.Equal(t, "Classic Tee", state.Items[0].Name)
	require.True(t, state.Subtotal.Equal(decimal.NewFromInt(998)), "subtotal %s", state.Subtotal)
	require.True(t, state.Tax.Equal(decimal.RequireFromString("179.64")), "tax %s", state.Tax)
	require.True(t, state.Shipping.Equal(decimal.NewFromInt(99)), "shipping %s", state.Shipping)

	itemID := state.Items[0].ID

	require.NoError(t, store.UpdateCartItem(ctx, itemID, 3))
	state = store.Snapshot()
	require.Equal(t, 3, state.Items[0].Quantity)
	// 1497 > 999, so shipping drops to zero.
	require.True(t, state.Shipping.IsZero(), "shipping %s", state.Shipping)

	require.NoError(t, store.RemoveFromCart(ctx, itemID))
	state = store.Snapshot()
	require.Empty(t, state.Items)
	require.True(t, state.Subtotal.IsZero())

	require.NoError(t, store.FetchCart(ctx))
	require.Empty(t, store.Snapshot().Items)
}

func TestServerTotalsAgreeWithLocalDerivation(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-classic-tee", Quantity: 1, Size: "S", Color: "white",
	}))
	require.NoError(t, store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-enamel-mug", Quantity: 2, Size: "one-size", Color: "cream",
	}))

	fromServer := store.Snapshot()
	store.CalculateTotals()
	local := store.Snapshot()

	require.True(t, local.Subtotal.Equal(fromServer.Subtotal), "subtotal %s vs %s", local.Subtotal, fromServer.Subtotal)
	require.True(t, local.Tax.Equal(fromServer.Tax), "tax %s vs %s", local.Tax, fromServer.Tax)
	require.True(t, local.Shipping.Equal(fromServer.Shipping), "shipping %s vs %s", local.Shipping, fromServer.Shipping)
	require.True(t, local.Total.Equal(fromServer.Total), "total %s vs %s", local.Total, fromServer.Total)
}

func TestMissingProductImagesBecomePlaceholder(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	// The seeded enamel mug has no images.
	require.NoError(t, store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-enamel-mug", Quantity: 1, Size: "one-size", Color: "cream",
	}))

	state := store.Snapshot()
	require.Len(t, state.Items, 1)
	require.Equal(t, cart.PlaceholderImage, state.Items[0].Image)
}

func TestCouponLifecycle(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-canvas-hoodie", Quantity: 1, Size: "L", Color: "olive",
	}))
	before := store.Snapshot()

	require.NoError(t, store.ApplyCoupon(ctx, "FESTIVE10"))
	state := store.Snapshot()
	// 10% of the 899 subtotal.
	require.True(t, state.Discount.Equal(decimal.RequireFromString("89.9")), "discount %s", state.Discount)
	require.Equal(t, "FESTIVE10", state.CouponCode)
	require.True(t, state.Subtotal.Equal(before.Subtotal), "items and other money fields must not move")
	require.Len(t, state.Items, len(before.Items))

	require.NoError(t, store.RemoveCoupon(ctx))
	state = store.Snapshot()
	require.True(t, state.Discount.IsZero())
	require.Empty(t, state.CouponCode)
}

func TestInvalidCouponSurfacesServerMessage(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()

	err := store.ApplyCoupon(context.Background(), "NOPE123")
	require.Error(t, err)
	require.Equal(t, "Invalid coupon code", err.Error())
}

func TestUnknownProductAndItemErrors(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	err := store.AddToCart(ctx, cart.AddToCartInput{
		ProductID: "prod-ghost", Quantity: 1, Size: "M", Color: "black",
	})
	require.Error(t, err)
	require.Equal(t, "Product not found", err.Error())

	err = store.UpdateCartItem(ctx, "item-ghost", 2)
	require.Error(t, err)
	require.Equal(t, "Cart item not found", err.Error())

	err = store.RemoveFromCart(ctx, "item-ghost")
	require.Error(t, err)
	require.Equal(t, "Cart item not found", err.Error())
}

func TestSameVariantStacksOntoExistingLine(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()
	ctx := context.Background()

	input := cart.AddToCartInput{ProductID: "prod-classic-tee", Quantity: 1, Size: "M", Color: "black"}
	require.NoError(t, store.AddToCart(ctx, input))
	require.NoError(t, store.AddToCart(ctx, input))

	state := store.Snapshot()
	require.Len(t, state.Items, 1)
	require.Equal(t, 2, state.Items[0].Quantity)

	// A different variant of the same product is its own line item.
	other := input
	other.Color = "white"
	require.NoError(t, store.AddToCart(ctx, other))
	require.Len(t, store.Snapshot().Items, 2)
}

func TestStockLimitRejected(t *testing.T) {
	store, teardown := newStack(t)
	defer teardown()

	err := store.AddToCart(context.Background(), cart.AddToCartInput{
		ProductID: "prod-enamel-mug", Quantity: 9, Size: "one-size", Color: "cream",
	})
	require.Error(t, err)
	require.Equal(t, "Insufficient stock", err.Error())
}
