// Package handlers builds echo handlers of the storefront API.
//
// Each XxxHandler takes repositories (or services) it needs,
// and names of path parameters when it reads them.
package handlers

import (
	"encoding/json"
	"mime"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	"github.com/sareeloom/storefront/pkg/auth"
	"github.com/sareeloom/storefront/pkg/domain"
)

// bindJSON decodes the request body of application/json into v.
func bindJSON(c echo.Context, v any) error {
	req := c.Request()
	ctype, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil || ctype != echo.MIMEApplicationJSON {
		return apierr.BadRequest(
			"unexpected content type. it should be application/json", err,
		)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}

// userOf returns the authenticated user. Routes should be guarded by auth.Authenticated.
func userOf(c echo.Context) (domain.User, error) {
	u, ok := auth.UserOf(c)
	if !ok {
		return domain.User{}, apierr.Unauthorized("login required", nil)
	}
	return u, nil
}

// queryInt reads a non-negative integer query parameter. def is used when it is not given.
func queryInt(c echo.Context, name string, def int) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, apierr.BadRequest(
			"query parameter "+name+" should be a non-negative integer", err,
		)
	}
	return i, nil
}

// queryBool reads "true" or "false". def is used when it is not given.
func queryBool(c echo.Context, name string, def bool) (bool, error) {
	switch c.QueryParam(name) {
	case "":
		return def, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, apierr.BadRequest(
			"query parameter "+name+" should be true or false", nil,
		)
	}
}
