package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	bindorders "github.com/sareeloom/storefront/pkg/api-types-binding/orders"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	apiorders "github.com/sareeloom/storefront/pkg/api/types/orders"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	"github.com/sareeloom/storefront/pkg/utils"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

// ListMyOrdersHandler lists orders of the user, newest first.
func ListMyOrdersHandler(dborder orderdb.OrderInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		orders, err := dborder.FindByUser(c.Request().Context(), user.Id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(orders, bindorders.ComposeOrder))
	}
}

// GetMyOrderHandler returns the order when it is of the user.
func GetMyOrderHandler(dborder orderdb.OrderInterface, orderIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		order, err := dborder.Get(c.Request().Context(), c.Param(orderIdParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		if order.UserId != user.Id {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusOK, bindorders.ComposeOrder(order))
	}
}

// CancelMyOrderHandler cancels the order of the user. Only pending or confirmed orders can be cancelled.
func CancelMyOrderHandler(co *checkout.Checkout, orderIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		order, err := co.Cancel(c.Request().Context(), user, c.Param(orderIdParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindorders.ComposeOrder(order))
	}
}

const maxOrdersPerPage = 200

// FindOrdersHandler finds orders for back-office.
//
// Query parameters: status (repeatable), user, since, until (RFC3339), limit, offset.
func FindOrdersHandler(dborder orderdb.OrderInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := domain.OrderFindQuery{UserId: c.QueryParam("user")}
		for _, s := range c.QueryParams()["status"] {
			st, err := domain.AsOrderStatus(s)
			if err != nil {
				return apierr.BadRequest(
					"status should be pending, confirmed, processing, shipped, delivered or cancelled", err,
				)
			}
			query.Status = append(query.Status, st)
		}
		for name, dest := range map[string]**time.Time{
			"since": &query.Since,
			"until": &query.Until,
		} {
			s := c.QueryParam(name)
			if s == "" {
				continue
			}
			t, err := rfctime.ParseRFC3339DateTime(s)
			if err != nil {
				return apierr.BadRequest(fmt.Sprintf("%s should be RFC3339 date-time", name), err)
			}
			tt := t.Time()
			*dest = &tt
		}

		var err error
		if query.Limit, err = queryInt(c, "limit", 50); err != nil {
			return err
		}
		if query.Limit == 0 || maxOrdersPerPage < query.Limit {
			query.Limit = maxOrdersPerPage
		}
		if query.Offset, err = queryInt(c, "offset", 0); err != nil {
			return err
		}

		orders, err := dborder.Find(c.Request().Context(), query)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(orders, bindorders.ComposeOrder))
	}
}

// PutOrderStatusHandler changes the status of the order.
//
// notices are enqueued with the change.
func PutOrderStatusHandler(
	dborder orderdb.OrderInterface,
	notices orderdb.Notices,
	orderIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiorders.StatusChange)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		next, err := domain.AsOrderStatus(req.Status)
		if err != nil {
			return apierr.BadRequest("unknown status", err)
		}
		order, err := dborder.SetStatus(c.Request().Context(), c.Param(orderIdParam), next, notices)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindorders.ComposeOrder(order))
	}
}
