package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
	pkgerrors "github.com/aritzhuerta/storefront-cart/pkg/errors"
	"github.com/aritzhuerta/storefront-cart/pkg/logger"
	"github.com/aritzhuerta/storefront-cart/pkg/metrics"
)

const (
	opFetchCart      = "fetch_cart"
	opAddToCart      = "add_to_cart"
	opUpdateCartItem = "update_cart_item"
	opRemoveFromCart = "remove_from_cart"
	opApplyCoupon    = "apply_coupon"
	opRemoveCoupon   = "remove_coupon"
)

type apiClient interface {
	FetchCart(ctx context.Context) (*cartapi.CartPayload, error)
	AddItem(ctx context.Context, req cartapi.AddItemRequest) (*cartapi.CartPayload, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*cartapi.CartPayload, error)
	RemoveItem(ctx context.Context, itemID string) (*cartapi.CartPayload, error)
	ApplyCoupon(ctx context.Context, code string) (*cartapi.CouponPayload, error)
	RemoveCoupon(ctx context.Context) error
}

// Store owns the client-side cart state. All mutations go through its
// operations; applies are serialized by the store's lock while network calls
// run outside it, so concurrently issued operations resolve last-write-wins.
type Store struct {
	client  apiClient
	logg    *logger.Logger
	metrics *metrics.OperationMetrics

	mu    sync.Mutex
	state State
}

// NewStore builds a cart store backed by the provided API client.
func NewStore(client apiClient, logg *logger.Logger, m *metrics.OperationMetrics) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("cart api client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		client:  client,
		logg:    logg,
		metrics: m,
	}, nil
}

// Snapshot returns an independent copy of the current state for the UI to read.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	snapshot.Items = make([]CartItem, len(s.state.Items))
	copy(snapshot.Items, s.state.Items)
	return snapshot
}

// FetchCart loads the full cart snapshot. It is the only operation that toggles
// Loading, and the only one whose failure is captured into State.Error; the
// error is returned as well so callers can react immediately.
func (s *Store) FetchCart(ctx context.Context) error {
	ctx = s.logg.WithOperation(ctx, opFetchCart)
	start := time.Now()

	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	payload, err := s.client.FetchCart(ctx)
	s.observe(opFetchCart, start, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Error = pkgerrors.Message(err)
		s.logg.Error(ctx, "fetch cart failed", err)
		return err
	}

	s.applyCart(payload, true)
	s.logg.Debug(ctx, fmt.Sprintf("cart fetched: %d items", len(s.state.Items)))
	return nil
}

// AddToCart adds a product variant. Failures propagate to the caller and leave
// the state untouched.
func (s *Store) AddToCart(ctx context.Context, input AddToCartInput) error {
	ctx = s.logg.WithOperation(ctx, opAddToCart)
	if err := validateInput(input); err != nil {
		return err
	}

	start := time.Now()
	payload, err := s.client.AddItem(ctx, cartapi.AddItemRequest{
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		Size:          input.Size,
		Color:         input.Color,
		Customization: input.Customization,
	})
	s.observe(opAddToCart, start, err)
	if err != nil {
		s.logg.Warn(ctx, "add to cart failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCart(payload, false)
	return nil
}

// UpdateCartItem replaces a line item's quantity.
func (s *Store) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	ctx = s.logg.WithOperation(s.logg.WithItemID(ctx, itemID), opUpdateCartItem)
	if strings.TrimSpace(itemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	start := time.Now()
	payload, err := s.client.UpdateItem(ctx, itemID, quantity)
	s.observe(opUpdateCartItem, start, err)
	if err != nil {
		s.logg.Warn(ctx, "update cart item failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCart(payload, false)
	return nil
}

// RemoveFromCart deletes a line item.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	ctx = s.logg.WithOperation(s.logg.WithItemID(ctx, itemID), opRemoveFromCart)
	if strings.TrimSpace(itemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	start := time.Now()
	payload, err := s.client.RemoveItem(ctx, itemID)
	s.observe(opRemoveFromCart, start, err)
	if err != nil {
		s.logg.Warn(ctx, "remove from cart failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCart(payload, false)
	return nil
}

// ApplyCoupon submits a coupon code; on success only Discount and CouponCode change.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	ctx = s.logg.WithOperation(ctx, opApplyCoupon)
	if strings.TrimSpace(code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	start := time.Now()
	payload, err := s.client.ApplyCoupon(ctx, code)
	s.observe(opApplyCoupon, start, err)
	if err != nil {
		s.logg.Warn(ctx, "apply coupon failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Discount = payload.Discount
	s.state.CouponCode = payload.CouponCode
	s.state.Error = ""
	return nil
}

// RemoveCoupon clears the applied coupon server-side, then resets the local
// discount fields.
func (s *Store) RemoveCoupon(ctx context.Context) error {
	ctx = s.logg.WithOperation(ctx, opRemoveCoupon)

	start := time.Now()
	err := s.client.RemoveCoupon(ctx)
	s.observe(opRemoveCoupon, start, err)
	if err != nil {
		s.logg.Warn(ctx, "remove coupon failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Discount = decimal.Zero
	s.state.CouponCode = ""
	s.state.Error = ""
	return nil
}

// ClearCart empties the cart locally. Tax and Shipping keep their previous
// values; only the next totals derivation or server response moves them.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []CartItem{}
	s.state.Subtotal = decimal.Zero
	s.state.Total = decimal.Zero
	s.state.Discount = decimal.Zero
	s.state.CouponCode = ""
}

// CalculateTotals re-derives the money fields from the current items, ignoring
// any server-provided totals. The discount is left untouched.
func (s *Store) CalculateTotals() {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal, tax, shipping, total := computeTotals(s.state.Items, s.state.Discount)
	s.state.Subtotal = subtotal
	s.state.Tax = tax
	s.state.Shipping = shipping
	s.state.Total = total
}

// applyCart replaces items and money fields from a server snapshot. CouponCode
// is only replaced on fetch; the item mutations leave it alone. Callers hold the lock.
func (s *Store) applyCart(payload *cartapi.CartPayload, withCoupon bool) {
	s.state.Items = normalizeItems(payload.Items)
	s.state.Subtotal = payload.Subtotal
	s.state.Tax = payload.Tax
	s.state.Shipping = payload.Shipping
	s.state.Discount = payload.Discount
	s.state.Total = payload.Total
	if withCoupon {
		s.state.CouponCode = payload.CouponCode
	}
	s.state.Error = ""
}

func (s *Store) observe(op string, start time.Time, err error) {
	s.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(op)
		return
	}
	s.metrics.IncSuccess(op)
}
