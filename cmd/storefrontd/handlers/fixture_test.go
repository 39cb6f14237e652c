package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sareeloom/storefront/pkg/auth"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	catalogmock "github.com/sareeloom/storefront/pkg/domain/catalog/db/mock"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
	mocks "github.com/sareeloom/storefront/pkg/domain/storefront/db/mock"
	paymentmock "github.com/sareeloom/storefront/pkg/payment/mock"
)

func ref[T any](v T) *T {
	return &v
}

var now = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

var customer = domain.User{Id: "user-1", Email: "meera@example.com", Name: "Meera"}

var silk = domain.Product{
	Id: "p-silk", Slug: "kanjivaram-silk", Name: "Kanjivaram Silk",
	Price: domain.Rupees(4000), Stock: 5, Active: true, CreatedAt: now, UpdatedAt: now,
}

var cotton = domain.Product{
	Id: "p-cotton", Slug: "chettinad-cotton", Name: "Chettinad Cotton",
	Price: domain.Rupees(1000), SalePrice: ref(domain.Rupees(800)), Stock: 1, Active: true,
	CreatedAt: now, UpdatedAt: now,
}

var fallPico = domain.Addon{Id: "a-fall", Name: "Fall & Pico", Price: domain.Rupees(150), Active: true}

type verifierFunc func(string) (domain.User, error)

func (f verifierFunc) Verify(token string) (domain.User, error) {
	return f(token)
}

// asUser makes h to be requested by the user.
//
// Requests should have "Authorization: Bearer ..." header.
func asUser(user domain.User, h echo.HandlerFunc) echo.HandlerFunc {
	return auth.Authenticated(verifierFunc(func(string) (domain.User, error) {
		return user, nil
	}))(h)
}

func codeOf(err error) int {
	he := new(echo.HTTPError)
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("unexpected response body: %s (%s)", resp.Body.String(), err)
	}
	return v
}

// withCatalog makes the catalog mock to know silk, cotton and fall & pico.
func withCatalog(catalog *catalogmock.CatalogInterface) {
	catalog.Impl.Get = func(ctx context.Context, ids []string) (map[string]domain.Product, error) {
		found := map[string]domain.Product{}
		for _, id := range ids {
			for _, p := range []domain.Product{silk, cotton} {
				if p.Id == id {
					found[id] = p
				}
			}
		}
		return found, nil
	}
	catalog.Impl.GetAddons = func(ctx context.Context, ids []string) (map[string]domain.Addon, error) {
		found := map[string]domain.Addon{}
		for _, id := range ids {
			if id == fallPico.Id {
				found[id] = fallPico
			}
		}
		return found, nil
	}
}

const (
	keySecret     = "key-secret"
	webhookSecret = "webhook-secret"
)

func newCheckout(db *mocks.Database, gateway *paymentmock.Gateway) *checkout.Checkout {
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	return checkout.New(
		db.MockCatalog, db.MockCoupon, db.MockOrder, gateway,
		checkout.Config{
			Rules: pricing.Rules{
				DeliveryCharge:        domain.Rupees(99),
				FreeDeliveryThreshold: domain.Rupees(2999),
				MaxQuantityPerLine:    10,
			},
			KeySecret:     keySecret,
			WebhookSecret: webhookSecret,
			AdminEmail:    "shop@example.com",
		},
		logger,
		checkout.WithClock(func() time.Time { return now }),
		checkout.WithNumbering(func(time.Time) string { return "SL-20241020-0000CAFE" }),
	)
}

func asOrder(orderId string, spec domain.OrderSpec) domain.Order {
	return domain.Order{
		Id: orderId, Number: spec.Number, UserId: spec.UserId, Email: spec.Email,
		Status: domain.Pending, PaymentStatus: domain.PaymentPending, PaymentMethod: spec.PaymentMethod,
		Breakdown: spec.Breakdown, CouponCode: spec.CouponCode, Shipping: spec.Shipping, Items: spec.Items,
		CreatedAt: now, UpdatedAt: now,
	}
}
