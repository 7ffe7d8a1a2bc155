package cart

import (
	"github.com/aritzhuerta/storefront-cart/internal/cartapi"
)

// PlaceholderImage is substituted when a product carries no images.
const PlaceholderImage = "/placeholder.png"

// normalizeItems flattens the relational wire items into display-ready cart
// items, preserving server order. Customization payloads pass through untouched.
func normalizeItems(payload []cartapi.ItemPayload) []CartItem {
	items := make([]CartItem, 0, len(payload))
	for _, entry := range payload {
		image := PlaceholderImage
		if len(entry.Product.Images) > 0 {
			image = entry.Product.Images[0]
		}
		items = append(items, CartItem{
			ID:            entry.ID,
			ProductID:     entry.Product.ID,
			Name:          entry.Product.Name,
			Image:         image,
			Price:         entry.Product.Price,
			OriginalPrice: entry.Product.OriginalPrice,
			Quantity:      entry.Quantity,
			Size:          entry.Size,
			Color:         entry.Color,
			Customization: entry.Customization,
			Stock:         entry.Product.Stock,
			Seller: Seller{
				ID:   entry.Product.Seller.ID,
				Name: entry.Product.Seller.Name,
			},
		})
	}
	return items
}
