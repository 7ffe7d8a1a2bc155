package stubserver

import (
	"encoding/json"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
)

func init() {
	// The storefront API emits money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Server is an in-memory cart backend implementing the same wire contract as
// the production API. It exists for local development and integration tests.
type Server struct {
	logg *logger.Logger

	mu      sync.Mutex
	catalog map[string]cartapi.ProductPayload
	coupons map[string]coupon
	items   []lineItem
	applied string
}

type lineItem struct {
	ID            string
	ProductID     string
	Quantity      int
	Size          string
	Color         string
	Customization json.RawMessage
}

// coupon is either a flat amount or a percentage of the subtotal.
type coupon struct {
	Flat    decimal.Decimal
	Percent decimal.Decimal
}

func (c coupon) amount(subtotal decimal.Decimal) decimal.Decimal {
	if !c.Percent.IsZero() {
		return subtotal.Mul(c.Percent)
	}
	return c.Flat
}

// NewServer builds a stub backend seeded with a small catalog and coupon table.
func NewServer(logg *logger.Logger) *Server {
	return &Server{
		logg:    logg,
		catalog: seedCatalog(),
		coupons: seedCoupons(),
	}
}

// Router wires the cart routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.handleFetchCart)
		r.Post("/", s.handleAddItem)
		r.Put("/{itemID}", s.handleUpdateItem)
		r.Delete("/{itemID}", s.handleRemoveItem)
		r.Post("/coupon", s.handleApplyCoupon)
		r.Delete("/coupon", s.handleRemoveCoupon)
	})
	return r
}

// SeedProduct adds or replaces a catalog entry, mainly for tests.
func (s *Server) SeedProduct(product cartapi.ProductPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[product.ID] = product
}

// SeedCoupon registers a flat-amount coupon code, mainly for tests.
func (s *Server) SeedCoupon(code string, flat decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[code] = coupon{Flat: flat}
}

func seedCatalog() map[string]cartapi.ProductPayload {
	classicPrice := decimal.NewFromInt(899)
	classicOriginal := decimal.NewFromInt(1099)
	products := []cartapi.ProductPayload{
		{
			ID:            "prod-classic-tee",
			Name:          "Classic Tee",
			Price:         decimal.NewFromInt(499),
			OriginalPrice: nil,
			Images:        []string{"/images/classic-tee-front.jpg", "/images/classic-tee-back.jpg"},
			Stock:         120,
			Seller:        cartapi.SellerPayload{ID: "seller-atelier", Name: "Atelier Prints"},
		},
		{
			ID:            "prod-canvas-hoodie",
			Name:          "Canvas Hoodie",
			Price:         classicPrice,
			OriginalPrice: &classicOriginal,
			Images:        []string{"/images/canvas-hoodie.jpg"},
			Stock:         45,
			Seller:        cartapi.SellerPayload{ID: "seller-atelier", Name: "Atelier Prints"},
		},
		{
			ID:     "prod-enamel-mug",
			Name:   "Enamel Mug",
			Price:  decimal.NewFromInt(349),
			Images: nil,
			Stock:  8,
			Seller: cartapi.SellerPayload{ID: "seller-northco", Name: "North & Co"},
		},
	}

	catalog := make(map[string]cartapi.ProductPayload, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}
	return catalog
}

func seedCoupons() map[string]coupon {
	return map[string]coupon{
		"WELCOME50":  {Flat: decimal.NewFromInt(50)},
		"FESTIVE10":  {Percent: decimal.NewFromFloat(0.10)},
		"FREESHIP99": {Flat: decimal.NewFromInt(99)},
	}
}
