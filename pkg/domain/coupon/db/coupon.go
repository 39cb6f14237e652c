package db

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
)

type CouponInterface interface {
	// Get the coupon. Code is case insensitive.
	//
	// # Returns
	//
	// - error: ErrMissing when there are no such coupons.
	Get(ctx context.Context, code string) (domain.Coupon, error)

	List(ctx context.Context) ([]domain.Coupon, error)

	// Upsert creates or replaces the coupon.
	//
	// UsedCount of the argument is ignored; usage is counted by orders.
	Upsert(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)

	// Delete the coupon.
	//
	// # Returns
	//
	// - error: ErrMissing when there are no such coupons.
	Delete(ctx context.Context, code string) error
}
