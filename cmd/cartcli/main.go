package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aritzhuerta/storefront-cart/internal/cart"
	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
	"github.com/aritzhuerta/storefront-cart/pkg/config"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
	"github.com/aritzhuerta/storefront-cart/pkg/metrics"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "cartcli"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "fetch", "operation: fetch|add|update|remove|coupon|uncoupon|clear|totals")
	productID := flag.String("product", "", "product id (for add)")
	quantity := flag.Int("qty", 1, "quantity (for add/update)")
	size := flag.String("size", "M", "variant size (for add)")
	color := flag.String("color", "black", "variant color (for add)")
	itemID := flag.String("item", "", "line item id (for update/remove)")
	code := flag.String("code", "", "coupon code (for coupon)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cartcli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := cartapi.NewClient(cfg.API, logg)
	requireResource(ctx, logg, "cart api client", err)

	store, err := cart.NewStore(client, logg, metrics.NewOperationMetrics(prometheus.NewRegistry()))
	requireResource(ctx, logg, "cart store", err)

	switch *cmd {
	case "fetch":
		err = store.FetchCart(ctx)
	case "add":
		err = store.AddToCart(ctx, cart.AddToCartInput{
			ProductID: *productID,
			Quantity:  *quantity,
			Size:      *size,
			Color:     *color,
		})
	case "update":
		err = store.UpdateCartItem(ctx, *itemID, *quantity)
	case "remove":
		err = store.RemoveFromCart(ctx, *itemID)
	case "coupon":
		err = store.ApplyCoupon(ctx, *code)
	case "uncoupon":
		err = store.RemoveCoupon(ctx)
	case "clear":
		store.ClearCart()
	case "totals":
		if err = store.FetchCart(ctx); err == nil {
			store.CalculateTotals()
		}
	default:
		logg.Error(ctx, "unknown command: "+*cmd, nil)
		os.Exit(2)
	}
	if err != nil {
		logg.Error(ctx, "operation failed", err)
		os.Exit(1)
	}

	printState(store.Snapshot())
}

func printState(state cart.State) {
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render state: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+name, err)
	os.Exit(1)
}
