package domain

import (
	"errors"
	"fmt"
)

var (
	// requested entity is not found.
	ErrMissing = errors.New("missing")

	// the entity is conflicting with an existing one.
	ErrConflict = errors.New("conflict")

	ErrInvalidAmount = errors.New("invalid amount")

	// order status cannot be changed as requested.
	ErrInvalidTransition = errors.New("cannot change order status")

	// product is not on sale (deactivated or unknown).
	ErrProductUnavailable = errors.New("product is unavailable")

	ErrOutOfStock = errors.New("out of stock")

	ErrInvalidQuantity = errors.New("invalid quantity")

	ErrEmptyOrder = errors.New("order has no items")

	// payment signature does not match with the payment.
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	ErrCouponInvalid = errors.New("coupon is not applicable")

	ErrInvalidProduct = errors.New("invalid product")
	ErrInvalidCoupon  = errors.New("invalid coupon")
	ErrInvalidAddress = errors.New("invalid shipping address")
	ErrInvalidReview  = errors.New("invalid review")

	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

type CouponReason string

const (
	CouponUnknown      CouponReason = "unknown"
	CouponInactive     CouponReason = "inactive"
	CouponNotStarted   CouponReason = "not started"
	CouponExpired      CouponReason = "expired"
	CouponExhausted    CouponReason = "usage limit reached"
	CouponBelowMinimum CouponReason = "order amount below minimum"
)

// CouponError tells why the coupon cannot be applied.
//
// It unwraps to ErrCouponInvalid.
type CouponError struct {
	Code   string
	Reason CouponReason

	// set when Reason is CouponBelowMinimum
	MinOrder Amount
}

func (c *CouponError) Error() string {
	if c.Reason == CouponBelowMinimum {
		return fmt.Sprintf("coupon %s: %s (%s)", c.Code, c.Reason, c.MinOrder)
	}
	return fmt.Sprintf("coupon %s: %s", c.Code, c.Reason)
}

func (c *CouponError) Unwrap() error {
	return ErrCouponInvalid
}

// LineError tells which line of cart or order is wrong.
type LineError struct {
	ProductId string
	Err       error
}

func (l *LineError) Error() string {
	return fmt.Sprintf("product %s: %s", l.ProductId, l.Err)
}

func (l *LineError) Unwrap() error {
	return l.Err
}
