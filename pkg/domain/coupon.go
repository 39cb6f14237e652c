package domain

import (
	"fmt"
	"strings"
	"time"
)

type DiscountType string

const (
	// discount by percentage of the merchandise amount.
	Percent DiscountType = "percent"

	// discount by a fixed amount.
	Fixed DiscountType = "fixed"
)

func AsDiscountType(s string) (DiscountType, error) {
	switch dt := DiscountType(s); dt {
	case Percent, Fixed:
		return dt, nil
	default:
		return dt, fmt.Errorf("%w: unknown discount type %q", ErrInvalidCoupon, s)
	}
}

type Coupon struct {
	Code string
	Type DiscountType

	// For Percent, percentage (1..100). For Fixed, amount in paise.
	Value int64

	// upper bound of the discount. Only for Percent. nil means unbounded.
	MaxDiscount *Amount

	// the coupon is applicable when merchandise amount is MinOrder or more.
	MinOrder Amount

	// nil means unlimited.
	UsageLimit *int
	UsedCount  int

	// nil means no bound.
	ValidFrom  *time.Time
	ValidUntil *time.Time

	Active bool
}

// NormalizeCouponCode makes codes case insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check tells whether the coupon can be applied to the merchandise amount at now.
//
// # Returns
//
// - error: nil if applicable. Otherwise *CouponError.
func (c *Coupon) Check(merchandise Amount, now time.Time) error {
	reason := CouponReason("")
	switch {
	case !c.Active:
		reason = CouponInactive
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		reason = CouponNotStarted
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		reason = CouponExpired
	case c.UsageLimit != nil && *c.UsageLimit <= c.UsedCount:
		reason = CouponExhausted
	case merchandise < c.MinOrder:
		return &CouponError{Code: c.Code, Reason: CouponBelowMinimum, MinOrder: c.MinOrder}
	default:
		return nil
	}
	return &CouponError{Code: c.Code, Reason: reason}
}

// DiscountOn calculates discount for the merchandise amount.
//
// This does not check applicability. Use Check before.
// Discount never exceeds merchandise amount.
func (c *Coupon) DiscountOn(merchandise Amount) Amount {
	if merchandise <= 0 {
		return 0
	}
	var d Amount
	switch c.Type {
	case Percent:
		d = merchandise.Percent(int(c.Value))
		if c.MaxDiscount != nil {
			d = MinAmount(d, *c.MaxDiscount)
		}
	case Fixed:
		d = Amount(c.Value)
	}
	if d < 0 {
		return 0
	}
	return MinAmount(d, merchandise)
}

func (c *Coupon) Validate() error {
	if c.Code == "" || c.Code != NormalizeCouponCode(c.Code) {
		return fmt.Errorf("%w: code should be non-empty and upper case", ErrInvalidCoupon)
	}
	if _, err := AsDiscountType(string(c.Type)); err != nil {
		return err
	}
	switch c.Type {
	case Percent:
		if c.Value < 1 || 100 < c.Value {
			return fmt.Errorf("%w: percentage should be in 1..100", ErrInvalidCoupon)
		}
	case Fixed:
		if c.Value <= 0 {
			return fmt.Errorf("%w: discount should be positive", ErrInvalidCoupon)
		}
		if c.MaxDiscount != nil {
			return fmt.Errorf("%w: max discount is only for percent coupon", ErrInvalidCoupon)
		}
	}
	if c.MinOrder < 0 {
		return fmt.Errorf("%w: minimum order should not be negative", ErrInvalidCoupon)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		return fmt.Errorf("%w: usage limit should not be negative", ErrInvalidCoupon)
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return fmt.Errorf("%w: validity period is reversed", ErrInvalidCoupon)
	}
	return nil
}
