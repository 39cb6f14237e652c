package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	bindcatalog "github.com/sareeloom/storefront/pkg/api-types-binding/catalog"
	apicatalog "github.com/sareeloom/storefront/pkg/api/types/catalog"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	"github.com/sareeloom/storefront/pkg/domain"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	"github.com/sareeloom/storefront/pkg/storage"
	"github.com/sareeloom/storefront/pkg/utils"
)

const maxProductsPerPage = 100

// FindProductsHandler finds products. Deactivated products are found only when includeInactive.
//
// Query parameters: category, fabric, color, min_price, max_price (rupees), q, sort, limit, offset.
func FindProductsHandler(dbcatalog catalogdb.CatalogInterface, includeInactive bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := domain.ProductQuery{
			CategorySlug:    c.QueryParam("category"),
			Fabric:          c.QueryParam("fabric"),
			Color:           c.QueryParam("color"),
			Keyword:         strings.TrimSpace(c.QueryParam("q")),
			IncludeInactive: includeInactive,
		}

		for name, dest := range map[string]**domain.Amount{
			"min_price": &query.MinPrice,
			"max_price": &query.MaxPrice,
		} {
			s := c.QueryParam(name)
			if s == "" {
				continue
			}
			a, err := domain.ParseAmount(s)
			if err != nil {
				return apierr.BadRequest(name+" should be an amount in rupees, like 1299.50", err)
			}
			*dest = &a
		}

		sort, err := domain.AsProductSort(c.QueryParam("sort"))
		if err != nil {
			return apierr.BadRequest("sort should be one of newest, price_asc or price_desc", err)
		}
		query.Sort = sort

		if query.Limit, err = queryInt(c, "limit", 24); err != nil {
			return err
		}
		if query.Limit == 0 || maxProductsPerPage < query.Limit {
			query.Limit = maxProductsPerPage
		}
		if query.Offset, err = queryInt(c, "offset", 0); err != nil {
			return err
		}

		products, err := dbcatalog.Find(c.Request().Context(), query)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(products, bindcatalog.ComposeProduct))
	}
}

// GetProductHandler returns an active product by slug.
func GetProductHandler(dbcatalog catalogdb.CatalogInterface, slugParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := dbcatalog.GetBySlug(c.Request().Context(), c.Param(slugParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		if !p.Active {
			return apierr.NotFound()
		}
		return c.JSON(http.StatusOK, bindcatalog.ComposeProduct(p))
	}
}

func ListCategoriesHandler(dbcatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		cats, err := dbcatalog.ListCategories(c.Request().Context())
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(cats, bindcatalog.ComposeCategory))
	}
}

// ListAddonsHandler lists add-ons. Inactive ones are listed when includeInactive.
func ListAddonsHandler(dbcatalog catalogdb.CatalogInterface, includeInactive bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		addons, err := dbcatalog.ListAddons(c.Request().Context(), includeInactive)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(addons, bindcatalog.ComposeAddon))
	}
}

func CreateProductHandler(dbcatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicatalog.ProductSpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		spec, err := bindcatalog.ParseProductSpec(*req)
		if err != nil {
			return apierr.FromDomain(err)
		}

		p, err := dbcatalog.Create(c.Request().Context(), spec)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return apierr.Conflict(
					"slug is taken", apierr.WithAdvice("choose another slug"), apierr.WithError(err),
				)
			}
			if errors.Is(err, domain.ErrMissing) {
				return apierr.BadRequest("category does not exist", err)
			}
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindcatalog.ComposeProduct(p))
	}
}

func UpdateProductHandler(dbcatalog catalogdb.CatalogInterface, productIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicatalog.ProductSpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		spec, err := bindcatalog.ParseProductSpec(*req)
		if err != nil {
			return apierr.FromDomain(err)
		}

		p, err := dbcatalog.Update(c.Request().Context(), c.Param(productIdParam), spec)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcatalog.ComposeProduct(p))
	}
}

// DeactivateProductHandler hides the product. Products are not deleted, since orders refer them.
func DeactivateProductHandler(dbcatalog catalogdb.CatalogInterface, productIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dbcatalog.Deactivate(c.Request().Context(), c.Param(productIdParam)); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// maxImageSize is the upper bound of an uploaded image, in bytes.
const maxImageSize = 8 << 20

// UploadProductImageHandler stores the request body as an image of the product.
//
// The type of image is detected from its content. jpeg, png and webp are accepted.
func UploadProductImageHandler(
	dbcatalog catalogdb.CatalogInterface,
	store storage.ImageStore,
	productIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		productId := c.Param(productIdParam)

		if ps, err := dbcatalog.Get(ctx, []string{productId}); err != nil {
			return apierr.FromDomain(err)
		} else if _, ok := ps[productId]; !ok {
			return apierr.NotFound()
		}

		body := http.MaxBytesReader(c.Response(), c.Request().Body, maxImageSize)
		ctype, content, err := storage.Sniff(body)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedType) {
				return apierr.NewErrorMessage(
					http.StatusUnsupportedMediaType, "unsupported image type",
					apierr.WithAdvice("upload jpeg, png or webp"), apierr.WithError(err),
				)
			}
			return apierr.BadRequest("can not read the image", err)
		}
		name, err := storage.ProductImageName(productId, ctype)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		url, err := store.Put(ctx, name, ctype, content)
		if err != nil {
			if mbe := new(http.MaxBytesError); errors.As(err, &mbe) {
				return apierr.NewErrorMessage(
					http.StatusRequestEntityTooLarge, "image is too large",
					apierr.WithAdvice("images should be 8MiB or less"), apierr.WithError(err),
				)
			}
			return apierr.ServiceUnavailable("retry later", err)
		}

		p, err := dbcatalog.AddImage(ctx, productId, url)
		if err != nil {
			if rerr := store.Remove(ctx, name); rerr != nil {
				c.Logger().Warnf("image %s is left in the storage: %s", name, rerr)
			}
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcatalog.ComposeProduct(p))
	}
}

// RemoveProductImageHandler removes the image given by query parameter "url" from the product.
//
// The image is also removed from the storage when it is there.
func RemoveProductImageHandler(
	dbcatalog catalogdb.CatalogInterface,
	store storage.ImageStore,
	productIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		url := c.QueryParam("url")
		if url == "" {
			return apierr.BadRequest("query parameter url is required", nil)
		}

		p, err := dbcatalog.RemoveImage(ctx, c.Param(productIdParam), url)
		if err != nil {
			return apierr.FromDomain(err)
		}
		if name, ok := store.NameOf(url); ok {
			if err := store.Remove(ctx, name); err != nil {
				c.Logger().Warnf("image %s is left in the storage: %s", name, err)
			}
		}
		return c.JSON(http.StatusOK, bindcatalog.ComposeProduct(p))
	}
}

func CreateCategoryHandler(dbcatalog catalogdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicatalog.CategorySpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Name) == "" || !domain.IsSlug(req.Slug) {
			return apierr.BadRequest("name is required, and slug should be lower-case words joined with '-'", nil)
		}

		cat, err := dbcatalog.CreateCategory(c.Request().Context(), req.Slug, req.Name)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindcatalog.ComposeCategory(cat))
	}
}

func DeleteCategoryHandler(dbcatalog catalogdb.CatalogInterface, categoryIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := dbcatalog.DeleteCategory(c.Request().Context(), c.Param(categoryIdParam)); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// PutAddonHandler creates or replaces the add-on.
func PutAddonHandler(dbcatalog catalogdb.CatalogInterface, addonIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicatalog.AddonSpec)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Name) == "" || req.Price < 0 {
			return apierr.BadRequest("name is required, and price should not be negative", nil)
		}

		a, err := dbcatalog.UpsertAddon(c.Request().Context(), domain.Addon{
			Id:     c.Param(addonIdParam),
			Name:   req.Name,
			Price:  req.Price,
			Active: utils.Default(req.Active, true),
		})
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcatalog.ComposeAddon(a))
	}
}
