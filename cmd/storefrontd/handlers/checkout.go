package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	bindorders "github.com/sareeloom/storefront/pkg/api-types-binding/orders"
	apicoupons "github.com/sareeloom/storefront/pkg/api/types/coupons"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	apiorders "github.com/sareeloom/storefront/pkg/api/types/orders"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
)

// CheckoutHandler places an order of the user.
//
// When the request has no lines, the whole cart is ordered.
func CheckoutHandler(dbcart cartdb.CartInterface, co *checkout.Checkout) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := userOf(c)
		if err != nil {
			return err
		}
		req := new(apiorders.CheckoutRequest)
		if err := bindJSON(c, req); err != nil {
			return err
		}

		var cart []domain.CartItem
		if len(req.Lines) == 0 {
			if cart, err = dbcart.List(ctx, user.Id); err != nil {
				return apierr.FromDomain(err)
			}
		}
		creq, err := bindorders.ParseCheckoutRequest(*req, cart)
		if err != nil {
			return apierr.FromDomain(err)
		}

		placed, err := co.PlaceOrder(ctx, user, creq)
		if err != nil {
			if errors.Is(err, checkout.ErrGatewayUnavailable) {
				return apierr.ServiceUnavailable("payment is not available now. retry later.", err)
			}
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusCreated, bindorders.ComposePlaced(placed))
	}
}

// VerifyPaymentHandler settles the payment which the checkout widget reports.
func VerifyPaymentHandler(co *checkout.Checkout) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := userOf(c)
		if err != nil {
			return err
		}
		req := new(apiorders.Verification)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if req.OrderId == "" || req.GatewayOrderId == "" || req.PaymentId == "" || req.Signature == "" {
			return apierr.BadRequest("orderId, gatewayOrderId, paymentId and signature are required", nil)
		}

		order, err := co.VerifyPayment(
			c.Request().Context(), user,
			req.OrderId, req.GatewayOrderId, req.PaymentId, req.Signature,
		)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, bindorders.ComposeOrder(order))
	}
}

// WebhookSignatureHeader carries the signature of webhook payloads.
const WebhookSignatureHeader = "X-Razorpay-Signature"

// maxWebhookSize is the upper bound of webhook payloads, in bytes.
const maxWebhookSize = 1 << 20

// PaymentWebhookHandler receives payment events from the gateway.
func PaymentWebhookHandler(co *checkout.Checkout) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookSize))
		if err != nil {
			return apierr.BadRequest("can not read the payload", err)
		}
		sig := c.Request().Header.Get(WebhookSignatureHeader)
		if err := co.HandleWebhook(c.Request().Context(), body, sig); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

// ValidateCouponHandler quotes lines with the coupon.
//
// Inapplicable coupons are responded as 422 with the reason.
func ValidateCouponHandler(co *checkout.Checkout) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apicoupons.Validation)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Code) == "" {
			return apierr.BadRequest("code is required", nil)
		}

		b, _, err := co.Quote(c.Request().Context(), bindorders.ParseLines(req.Lines), req.Code)
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apicoupons.Quote{
			Code:      domain.NormalizeCouponCode(req.Code),
			Breakdown: bindorders.ComposeBreakdown(b),
		})
	}
}
