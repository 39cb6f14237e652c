package postgres

import (
	"context"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	shared "github.com/sareeloom/storefront/pkg/domain/internal/db/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgCoupon struct {
	pool pool.Pool
}

func New(p pool.Pool) coupondb.CouponInterface {
	return &pgCoupon{pool: p}
}

func (c *pgCoupon) Get(ctx context.Context, code string) (domain.Coupon, error) {
	return shared.GetCoupon(ctx, c.pool, code, false)
}

func (c *pgCoupon) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := c.pool.Query(ctx, `select `+shared.CouponColumns+` from "coupon" order by "code"`)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	cs := []domain.Coupon{}
	for rows.Next() {
		cp, err := shared.ScanCoupon(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		cs = append(cs, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return cs, nil
}

func (c *pgCoupon) Upsert(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	var maxDiscount *int64
	if coupon.MaxDiscount != nil {
		md := int64(*coupon.MaxDiscount)
		maxDiscount = &md
	}
	code := domain.NormalizeCouponCode(coupon.Code)

	ret, err := shared.ScanCoupon(c.pool.QueryRow(
		ctx,
		`
		insert into "coupon" (
			"code", "discount_type", "value", "max_discount", "min_order",
			"usage_limit", "valid_from", "valid_until", "active"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		on conflict ("code") do update set
			"discount_type" = excluded."discount_type",
			"value" = excluded."value",
			"max_discount" = excluded."max_discount",
			"min_order" = excluded."min_order",
			"usage_limit" = excluded."usage_limit",
			"valid_from" = excluded."valid_from",
			"valid_until" = excluded."valid_until",
			"active" = excluded."active"
		returning `+shared.CouponColumns,
		code, string(coupon.Type), coupon.Value, maxDiscount, int64(coupon.MinOrder),
		coupon.UsageLimit, coupon.ValidFrom, coupon.ValidUntil, coupon.Active,
	))
	if err != nil {
		return domain.Coupon{}, xe.Wrap(dberr.Classify(err, "coupon", code))
	}
	return ret, nil
}

func (c *pgCoupon) Delete(ctx context.Context, code string) error {
	tag, err := c.pool.Exec(
		ctx, `delete from "coupon" where "code" = $1`, domain.NormalizeCouponCode(code),
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "coupon", Identity: code})
	}
	return nil
}
