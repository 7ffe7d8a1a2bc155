package stubserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
	pkgerrors "github.com/aritzhuerta/storefront-cart/pkg/errors"
)

func (s *Server) handleFetchCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeSuccess(w, r, s.snapshotLocked())
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var payload cartapi.AddItemRequest
	if err := decodeJSONBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.Quantity <= 0 {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.catalog[payload.ProductID]
	if !ok {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"))
		return
	}

	// Same variant stacks onto the existing line item.
	for i := range s.items {
		existing := &s.items[i]
		if existing.ProductID == payload.ProductID && existing.Size == payload.Size && existing.Color == payload.Color {
			if existing.Quantity+payload.Quantity > product.Stock {
				s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock"))
				return
			}
			existing.Quantity += payload.Quantity
			s.writeSuccess(w, r, s.snapshotLocked())
			return
		}
	}

	if payload.Quantity > product.Stock {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock"))
		return
	}

	s.items = append(s.items, lineItem{
		ID:            uuid.NewString(),
		ProductID:     payload.ProductID,
		Quantity:      payload.Quantity,
		Size:          payload.Size,
		Color:         payload.Color,
		Customization: payload.Customization,
	})
	s.writeSuccess(w, r, s.snapshotLocked())
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.Quantity <= 0 {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		if product, ok := s.catalog[s.items[i].ProductID]; ok && payload.Quantity > product.Stock {
			s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock"))
			return
		}
		s.items[i].Quantity = payload.Quantity
		s.writeSuccess(w, r, s.snapshotLocked())
		return
	}
	s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found"))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.writeSuccess(w, r, s.snapshotLocked())
		return
	}
	s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found"))
}

func (s *Server) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code string `json:"code"`
	}
	if err := decodeJSONBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coup, ok := s.coupons[payload.Code]
	if !ok {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeCoupon, "Invalid coupon code"))
		return
	}

	s.applied = payload.Code
	subtotal := s.subtotalLocked()
	s.writeSuccess(w, r, cartapi.CouponPayload{
		Discount:   coup.amount(subtotal),
		CouponCode: payload.Code,
	})
}

func (s *Server) handleRemoveCoupon(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = ""
	s.writeSuccess(w, r, map[string]bool{"success": true})
}

// snapshotLocked assembles the wire cart payload. Callers hold the lock.
func (s *Server) snapshotLocked() cartapi.CartPayload {
	items := make([]cartapi.ItemPayload, 0, len(s.items))
	for _, item := range s.items {
		product := s.catalog[item.ProductID]
		items = append(items, cartapi.ItemPayload{
			ID:            item.ID,
			Product:       product,
			Quantity:      item.Quantity,
			Size:          item.Size,
			Color:         item.Color,
			Customization: item.Customization,
		})
	}

	subtotal := s.subtotalLocked()
	tax := subtotal.Mul(taxRate)
	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	discount := decimal.Zero
	if coup, ok := s.coupons[s.applied]; ok {
		discount = coup.amount(subtotal)
	}

	return cartapi.CartPayload{
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		Discount:   discount,
		Total:      subtotal.Add(tax).Add(shipping).Sub(discount),
		CouponCode: s.applied,
	}
}

func (s *Server) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.items {
		product := s.catalog[item.ProductID]
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

var (
	taxRate               = decimal.NewFromFloat(0.18)
	freeShippingThreshold = decimal.NewFromInt(999)
	flatShippingFee       = decimal.NewFromInt(99)
)
