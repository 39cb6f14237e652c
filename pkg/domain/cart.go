package domain

import "time"

// CartItem is a line of the cart. A cart has at most one line per product.
type CartItem struct {
	ProductId string
	Quantity  int
	AddonIds  []string
	AddedAt   time.Time
}

// CartLine is a CartItem with resolved product and add-ons.
type CartLine struct {
	Product  Product
	Addons   []Addon
	Quantity int
}
