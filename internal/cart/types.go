package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Seller identifies the store fulfilling a line item.
type Seller struct {
	ID   string
	Name string
}

// CartItem is the flat, display-ready line item the UI reads. It is produced by
// normalizing the relational wire shape (item -> product -> seller).
type CartItem struct {
	ID            string
	ProductID     string
	Name          string
	Image         string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Quantity      int
	Size          string
	Color         string
	Customization json.RawMessage
	Stock         int
	Seller        Seller
}

// State is the client-side mirror of the server-held cart.
//
// Loading is true exactly while FetchCart is in flight; the other remote
// operations never touch it. Error holds the last FetchCart failure message and
// is cleared only by a subsequent successful remote operation.
type State struct {
	Items      []CartItem
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	CouponCode string
	Loading    bool
	Error      string
}
