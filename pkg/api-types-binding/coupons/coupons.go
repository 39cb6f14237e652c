package coupons

import (
	apicoupons "github.com/sareeloom/storefront/pkg/api/types/coupons"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeCoupon(c domain.Coupon) apicoupons.Coupon {
	rst := apicoupons.Coupon{
		Code:        c.Code,
		Type:        string(c.Type),
		Value:       c.Value,
		MaxDiscount: c.MaxDiscount,
		MinOrder:    c.MinOrder,
		UsageLimit:  c.UsageLimit,
		UsedCount:   c.UsedCount,
		Active:      c.Active,
	}
	if c.ValidFrom != nil {
		t := rfctime.RFC3339(*c.ValidFrom)
		rst.ValidFrom = &t
	}
	if c.ValidUntil != nil {
		t := rfctime.RFC3339(*c.ValidUntil)
		rst.ValidUntil = &t
	}
	return rst
}

// ParseCoupon converts a request into domain.Coupon with the code, and validates it.
//
// The code is normalized. UsedCount in the request is ignored.
func ParseCoupon(code string, c apicoupons.Coupon) (domain.Coupon, error) {
	dt, err := domain.AsDiscountType(c.Type)
	if err != nil {
		return domain.Coupon{}, err
	}
	rst := domain.Coupon{
		Code:        domain.NormalizeCouponCode(code),
		Type:        dt,
		Value:       c.Value,
		MaxDiscount: c.MaxDiscount,
		MinOrder:    c.MinOrder,
		UsageLimit:  c.UsageLimit,
		Active:      c.Active,
	}
	if c.ValidFrom != nil {
		t := c.ValidFrom.Time()
		rst.ValidFrom = &t
	}
	if c.ValidUntil != nil {
		t := c.ValidUntil.Time()
		rst.ValidUntil = &t
	}
	if err := rst.Validate(); err != nil {
		return domain.Coupon{}, err
	}
	return rst, nil
}
