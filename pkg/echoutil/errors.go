package echoutil

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
)

// HTTPErrorHandler responds errors as {"message": {"reason": ..., "advice": ..., "see": ...}}.
//
// Errors other than echo.HTTPError are responded as 500 Internal Server Error.
// Causes of errors are logged, not responded.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := new(echo.HTTPError)
	if !errors.As(err, &he) {
		he = apierr.InternalServerError(err)
	}

	var msg apierr.ErrorMessage
	switch m := he.Message.(type) {
	case apierr.ErrorMessage:
		msg = m
	case string:
		msg = apierr.ErrorMessage{Reason: m}
	default:
		msg = apierr.ErrorMessage{Reason: http.StatusText(he.Code)}
	}

	if he.Code >= http.StatusInternalServerError {
		c.Logger().Errorf("%d %s: %+v", he.Code, msg.Reason, err)
	} else if msg.Cause != nil {
		c.Logger().Debugf("%d %s: %+v", he.Code, msg.Reason, msg.Cause)
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(he.Code)
		return
	}
	if err := c.JSON(he.Code, apierr.ErrorResponse{Message: msg}); err != nil {
		c.Logger().Error(err)
	}
}
