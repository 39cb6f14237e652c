package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

const CouponColumns = `
	"code", "discount_type", "value", "max_discount", "min_order",
	"usage_limit", "used_count", "valid_from", "valid_until", "active"`

func ScanCoupon(row pgx.Row) (domain.Coupon, error) {
	c := domain.Coupon{}
	var dtype string
	var maxDiscount *int64
	var minOrder int64
	var validFrom, validUntil *time.Time
	if err := row.Scan(
		&c.Code, &dtype, &c.Value, &maxDiscount, &minOrder,
		&c.UsageLimit, &c.UsedCount, &validFrom, &validUntil, &c.Active,
	); err != nil {
		return domain.Coupon{}, err
	}
	c.Type = domain.DiscountType(dtype)
	if maxDiscount != nil {
		md := domain.Amount(*maxDiscount)
		c.MaxDiscount = &md
	}
	c.MinOrder = domain.Amount(minOrder)
	if validFrom != nil {
		vf := validFrom.UTC()
		c.ValidFrom = &vf
	}
	if validUntil != nil {
		vu := validUntil.UTC()
		c.ValidUntil = &vu
	}
	return c, nil
}

// GetCoupon returns the coupon with the code.
//
// # Returns
//
// - error: dberr.Missing when not found.
func GetCoupon(ctx context.Context, q pool.Queryer, code string, lock bool) (domain.Coupon, error) {
	query := `select ` + CouponColumns + ` from "coupon" where "code" = $1`
	if lock {
		query += ` for update`
	}
	c, err := ScanCoupon(q.QueryRow(ctx, query, domain.NormalizeCouponCode(code)))
	if err != nil {
		return domain.Coupon{}, xe.Wrap(dberr.Classify(err, "coupon", code))
	}
	return c, nil
}
