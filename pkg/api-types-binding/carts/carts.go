package carts

import (
	bindcatalog "github.com/sareeloom/storefront/pkg/api-types-binding/catalog"
	apicarts "github.com/sareeloom/storefront/pkg/api/types/carts"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeItem(i domain.CartItem) apicarts.Item {
	addons := i.AddonIds
	if addons == nil {
		addons = []string{}
	}
	return apicarts.Item{
		ProductId: i.ProductId,
		Quantity:  i.Quantity,
		AddonIds:  addons,
		AddedAt:   rfctime.RFC3339(i.AddedAt),
	}
}

func ComposeLine(l domain.CartLine) apicarts.Line {
	var addons domain.Amount
	for _, a := range l.Addons {
		addons += a.Price
	}
	return apicarts.Line{
		Product:   bindcatalog.ComposeProduct(l.Product),
		Addons:    utils.Map(l.Addons, bindcatalog.ComposeAddon),
		Quantity:  l.Quantity,
		LineTotal: (l.Product.UnitPrice() + addons).Times(l.Quantity),
		Available: l.Product.CanSell(l.Quantity) == nil,
	}
}

// ComposeCart composes lines of the cart and totals of available lines.
func ComposeCart(lines []domain.CartLine) apicarts.Cart {
	cart := apicarts.Cart{Lines: utils.Map(lines, ComposeLine)}
	for i, l := range cart.Lines {
		if !l.Available {
			continue
		}
		cart.Subtotal += lines[i].Product.UnitPrice().Times(l.Quantity)
		cart.AddonsTotal += l.LineTotal - lines[i].Product.UnitPrice().Times(l.Quantity)
	}
	return cart
}
