package carts

import (
	"github.com/sareeloom/storefront/pkg/api/types/catalog"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

// ItemSpec is a request body to put a product into the cart.
type ItemSpec struct {
	Quantity int      `json:"quantity"`
	AddonIds []string `json:"addonIds"`
}

type Item struct {
	ProductId string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	AddonIds  []string        `json:"addonIds"`
	AddedAt   rfctime.RFC3339 `json:"addedAt"`
}

type Line struct {
	Product  catalog.Product `json:"product"`
	Addons   []catalog.Addon `json:"addons"`
	Quantity int             `json:"quantity"`

	// (unit price + add-ons) × quantity
	LineTotal domain.Amount `json:"lineTotal"`

	// false when the product is not on sale or short of stock.
	Available bool `json:"available"`
}

// Cart is the cart with prices at the moment.
//
// Totals are of available lines. Coupons and delivery charge are not applied.
type Cart struct {
	Lines       []Line        `json:"lines"`
	Subtotal    domain.Amount `json:"subtotal"`
	AddonsTotal domain.Amount `json:"addonsTotal"`
}
