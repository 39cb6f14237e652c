// Package pricing derives order totals.
//
// Both the tentative quote shown at checkout and the authoritative
// recalculation of stored orders are made by Rules.Quote,
// so that they agree whenever prices are not changed in between.
package pricing

import (
	"fmt"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
)

type Rules struct {
	// charged when the order is not eligible for free delivery.
	DeliveryCharge domain.Amount

	// orders whose amount after discount is this or more are delivered for free.
	//
	// 0 means no free delivery.
	FreeDeliveryThreshold domain.Amount

	// upper bound of quantity in a line.
	MaxQuantityPerLine int
}

// Line is a product to be bought, with add-ons.
type Line struct {
	Product  domain.Product
	Addons   []domain.Addon
	Quantity int
}

// ValidateLine checks the line can be ordered now.
//
// # Returns
//
// - error: *domain.LineError wrapping ErrInvalidQuantity, ErrProductUnavailable or ErrOutOfStock.
func (r Rules) ValidateLine(l Line) error {
	max := r.MaxQuantityPerLine
	if max <= 0 {
		max = 10
	}
	if l.Quantity < 1 || max < l.Quantity {
		return &domain.LineError{
			ProductId: l.Product.Id,
			Err:       fmt.Errorf("%w: should be in 1..%d", domain.ErrInvalidQuantity, max),
		}
	}
	for _, a := range l.Addons {
		if !a.Active {
			return &domain.LineError{
				ProductId: l.Product.Id,
				Err:       fmt.Errorf("%w: add-on %s is not available", domain.ErrProductUnavailable, a.Name),
			}
		}
	}
	return l.Product.CanSell(l.Quantity)
}

// Snapshot freezes current prices of the line into an order item.
func Snapshot(l Line) domain.OrderItem {
	addons := make([]domain.AddonSnapshot, 0, len(l.Addons))
	for _, a := range l.Addons {
		addons = append(addons, domain.AddonSnapshot{Id: a.Id, Name: a.Name, Price: a.Price})
	}
	return domain.OrderItem{
		ProductId:   l.Product.Id,
		ProductName: l.Product.Name,
		Quantity:    l.Quantity,
		UnitPrice:   l.Product.UnitPrice(),
		Addons:      addons,
	}
}

// Delivery returns the delivery charge for the amount after discount.
func (r Rules) Delivery(afterDiscount domain.Amount) domain.Amount {
	if 0 < r.FreeDeliveryThreshold && r.FreeDeliveryThreshold <= afterDiscount {
		return 0
	}
	return r.DeliveryCharge
}

// Quote calculates the breakdown of items.
//
// # Args
//
// - items: order items with unit prices and add-on prices to be used.
//
// - coupon: coupon to be applied. nil if there are no coupons.
//
// - now: time to check coupon validity.
//
// # Returns
//
// - domain.Breakdown: Total is never negative.
//
// - error: domain.ErrEmptyOrder when items are empty,
// or *domain.CouponError when the coupon is not applicable.
func (r Rules) Quote(items []domain.OrderItem, coupon *domain.Coupon, now time.Time) (domain.Breakdown, error) {
	if len(items) == 0 {
		return domain.Breakdown{}, domain.ErrEmptyOrder
	}

	b := domain.Breakdown{}
	for _, it := range items {
		b.Subtotal += it.UnitPrice.Times(it.Quantity)
		b.AddonsTotal += it.AddonUnitPrice().Times(it.Quantity)
	}

	merchandise := b.Merchandise()
	if coupon != nil {
		if err := coupon.Check(merchandise, now); err != nil {
			return domain.Breakdown{}, err
		}
		b.Discount = coupon.DiscountOn(merchandise)
	}

	afterDiscount := merchandise - b.Discount
	b.DeliveryCharge = r.Delivery(afterDiscount)
	b.Total = afterDiscount + b.DeliveryCharge
	if b.Total < 0 {
		b.Total = 0
	}
	return b, nil
}
