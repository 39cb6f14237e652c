package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bindcoupons "github.com/sareeloom/storefront/pkg/api-types-binding/coupons"
	apicoupons "github.com/sareeloom/storefront/pkg/api/types/coupons"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	"github.com/sareeloom/storefront/pkg/utils"
)

func ListCouponsHandler(dbcoupon coupondb.CouponInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		coupons, err := dbcoupon.List(c.Request().Context())
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(coupons, bindcoupons.ComposeCoupon))
	}
}

// PutCouponHandler creates or replaces the coupon. Usage count is kept.
func PutCouponHandler(dbcoupon coupondb.CouponInterface, codeParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicoupons.Coupon)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		coupon, err := bindcoupons.ParseCoupon(c.Param(codeParam), *req)
		if err != nil {
			return apierr.FromDomain(err)
		}
		saved, err := dbcoupon.Upsert(c.Request().Context(), coupon)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcoupons.ComposeCoupon(saved))
	}
}

func DeleteCouponHandler(dbcoupon coupondb.CouponInterface, codeParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dbcoupon.Delete(c.Request().Context(), c.Param(codeParam)); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
