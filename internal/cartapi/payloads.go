package cartapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartPayload is the cart snapshot shape returned by the cart endpoints.
type CartPayload struct {
	Items      []ItemPayload   `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"couponCode,omitempty"`
}

// ItemPayload is one relational line item: item -> product -> seller.
type ItemPayload struct {
	ID            string          `json:"_id"`
	Product       ProductPayload  `json:"product"`
	Quantity      int             `json:"quantity"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Customization json.RawMessage `json:"customization,omitempty"`
}

type ProductPayload struct {
	ID            string           `json:"_id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Images        []string         `json:"images"`
	Stock         int              `json:"stock"`
	Seller        SellerPayload    `json:"seller"`
}

type SellerPayload struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// CouponPayload is returned by the coupon application endpoint.
type CouponPayload struct {
	Discount   decimal.Decimal `json:"discount"`
	CouponCode string          `json:"couponCode"`
}

// AddItemRequest is the body for POST /cart.
type AddItemRequest struct {
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Customization json.RawMessage `json:"customization,omitempty"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type errorBody struct {
	Message string `json:"message"`
}
