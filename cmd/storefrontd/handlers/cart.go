package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bindcarts "github.com/sareeloom/storefront/pkg/api-types-binding/carts"
	apicarts "github.com/sareeloom/storefront/pkg/api/types/carts"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
)

// GetCartHandler returns the cart of the user with current prices.
//
// Lines of products which no longer exist are omitted.
func GetCartHandler(dbcart cartdb.CartInterface, dbcatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := userOf(c)
		if err != nil {
			return err
		}

		items, err := dbcart.List(ctx, user.Id)
		if err != nil {
			return apierr.FromDomain(err)
		}
		if len(items) == 0 {
			return c.JSON(http.StatusOK, bindcarts.ComposeCart(nil))
		}

		productIds := make([]string, 0, len(items))
		addonIds := []string{}
		for _, i := range items {
			productIds = append(productIds, i.ProductId)
			addonIds = append(addonIds, i.AddonIds...)
		}
		products, err := dbcatalog.Get(ctx, productIds)
		if err != nil {
			return apierr.FromDomain(err)
		}
		addons := map[string]domain.Addon{}
		if len(addonIds) != 0 {
			if addons, err = dbcatalog.GetAddons(ctx, addonIds); err != nil {
				return apierr.FromDomain(err)
			}
		}

		lines := make([]domain.CartLine, 0, len(items))
		for _, i := range items {
			p, ok := products[i.ProductId]
			if !ok {
				continue
			}
			l := domain.CartLine{Product: p, Quantity: i.Quantity}
			for _, aid := range i.AddonIds {
				if a, ok := addons[aid]; ok {
					l.Addons = append(l.Addons, a)
				}
			}
			lines = append(lines, l)
		}
		return c.JSON(http.StatusOK, bindcarts.ComposeCart(lines))
	}
}

// PutCartItemHandler puts the product into the cart of the user, replacing the line of the product.
//
// The line is checked as it can be ordered now.
func PutCartItemHandler(
	dbcart cartdb.CartInterface,
	co *checkout.Checkout,
	productIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := userOf(c)
		if err != nil {
			return err
		}
		req := new(apicarts.ItemSpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}

		line := checkout.Line{ProductId: c.Param(productIdParam), Quantity: req.Quantity, AddonIds: req.AddonIds}
		if _, err := co.Lines(ctx, []checkout.Line{line}); err != nil {
			return apierr.FromDomain(err)
		}

		item, err := dbcart.Put(ctx, user.Id, domain.CartItem{
			ProductId: line.ProductId, Quantity: line.Quantity, AddonIds: line.AddonIds,
		})
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcarts.ComposeItem(item))
	}
}

func RemoveCartItemHandler(dbcart cartdb.CartInterface, productIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		if err := dbcart.Remove(c.Request().Context(), user.Id, c.Param(productIdParam)); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func ClearCartHandler(dbcart cartdb.CartInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		if err := dbcart.Clear(c.Request().Context(), user.Id); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
