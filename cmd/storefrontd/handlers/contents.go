package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	bindcontents "github.com/sareeloom/storefront/pkg/api-types-binding/contents"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
)

func GetContentHandler(dbcontent contentdb.ContentInterface, keyParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		block, err := dbcontent.Get(c.Request().Context(), c.Param(keyParam))
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcontents.ComposeContent(block))
	}
}

const maxContentSize = 256 << 10

// PutContentHandler stores the request body, a JSON document, as the content block.
func PutContentHandler(dbcontent contentdb.ContentInterface, keyParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := json.RawMessage{}
		if err := bindJSON(c, &raw); err != nil {
			return err
		}
		if maxContentSize < len(raw) {
			return apierr.NewErrorMessage(http.StatusRequestEntityTooLarge, "content is too large")
		}
		block, err := dbcontent.Put(c.Request().Context(), c.Param(keyParam), raw)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindcontents.ComposeContent(block))
	}
}
