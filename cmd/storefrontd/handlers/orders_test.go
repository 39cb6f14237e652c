package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/sareeloom/storefront/cmd/storefrontd/handlers"
	httptestutil "github.com/sareeloom/storefront/internal/testutils/http"
	apiorders "github.com/sareeloom/storefront/pkg/api/types/orders"
	"github.com/sareeloom/storefront/pkg/domain"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	mocks "github.com/sareeloom/storefront/pkg/domain/storefront/db/mock"
	paymentmock "github.com/sareeloom/storefront/pkg/payment/mock"
)

func TestGetMyOrderHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		owner string
		code  int
	}{
		"own order":           {owner: customer.Id, code: http.StatusOK},
		"order of other user": {owner: "user-2", code: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			db := mocks.New()
			db.MockOrder.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
				return asOrder(orderId, domain.OrderSpec{Number: "SL-1", UserId: testcase.owner}), nil
			}

			e := echo.New()
			c, resp := httptestutil.Get(e, "/api/orders/order-1/", httptestutil.Bearer("token"))
			c.SetParamNames("orderId")
			c.SetParamValues("order-1")
			err := asUser(customer, handlers.GetMyOrderHandler(db.MockOrder, "orderId"))(c)

			if testcase.code != http.StatusOK {
				if codeOf(err) != testcase.code {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if o := decode[apiorders.Order](t, resp); o.OrderId != "order-1" || o.Number != "SL-1" {
				t.Errorf("unexpected body: %+v", o)
			}
		})
	}
}

func TestListMyOrdersHandler(t *testing.T) {
	db := mocks.New()
	db.MockOrder.Impl.FindByUser = func(ctx context.Context, userId string) ([]domain.Order, error) {
		return nil, nil
	}

	e := echo.New()
	c, resp := httptestutil.Get(e, "/api/orders/", httptestutil.Bearer("token"))
	if err := asUser(customer, handlers.ListMyOrdersHandler(db.MockOrder))(c); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{customer.Id}, []string(db.MockOrder.Calls.FindByUser)); diff != "" {
		t.Errorf("FindByUser (-want +got):\n%s", diff)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestCancelMyOrderHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		status domain.OrderStatus
		code   int
	}{
		"pending order":  {status: domain.Pending, code: http.StatusOK},
		"shipped order":  {status: domain.Shipped, code: http.StatusConflict},
		"cancelled once": {status: domain.Cancelled, code: http.StatusConflict},
	} {
		t.Run(name, func(t *testing.T) {
			db := mocks.New()
			db.MockOrder.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
				o := asOrder(orderId, domain.OrderSpec{Number: "SL-1", UserId: customer.Id})
				o.Status = testcase.status
				return o, nil
			}
			db.MockOrder.Impl.SetStatus = func(ctx context.Context, orderId string, next domain.OrderStatus, notices orderdb.Notices) (domain.Order, error) {
				o := asOrder(orderId, domain.OrderSpec{Number: "SL-1", UserId: customer.Id})
				o.Status = next
				return o, nil
			}
			co := newCheckout(db, paymentmock.New("key-id"))

			e := echo.New()
			c, resp := httptestutil.Post(e, "/api/orders/order-1/cancel/", nil, httptestutil.Bearer("token"))
			c.SetParamNames("orderId")
			c.SetParamValues("order-1")
			err := asUser(customer, handlers.CancelMyOrderHandler(co, "orderId"))(c)

			if testcase.code != http.StatusOK {
				if codeOf(err) != testcase.code {
					t.Errorf("unexpected error: %v", err)
				}
				if db.MockOrder.Calls.SetStatus.Times() != 0 {
					t.Error("status is changed")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s := db.MockOrder.Calls.SetStatus; s.Times() != 1 || s[0].Next != domain.Cancelled {
				t.Errorf("SetStatus: %+v", s)
			}
			if o := decode[apiorders.Order](t, resp); o.Status != "cancelled" {
				t.Errorf("unexpected body: %+v", o)
			}
		})
	}
}

func TestFindOrdersHandler(t *testing.T) {
	since := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC)

	for name, testcase := range map[string]struct {
		when string
		then *domain.OrderFindQuery
		code int
	}{
		"without query": {
			when: "/api/admin/orders/",
			then: &domain.OrderFindQuery{Limit: 50},
		},
		"with query": {
			when: "/api/admin/orders/?status=confirmed&status=processing&user=user-1" +
				"&since=2024-10-01T00:00:00Z&until=2024-10-20T00:00:00Z&limit=1000&offset=200",
			then: &domain.OrderFindQuery{
				Status: []domain.OrderStatus{domain.Confirmed, domain.Processing},
				UserId: "user-1", Since: &since, Until: &until, Limit: 200, Offset: 200,
			},
		},
		"unknown status": {
			when: "/api/admin/orders/?status=lost",
			code: http.StatusBadRequest,
		},
		"malformed since": {
			when: "/api/admin/orders/?since=yesterday",
			code: http.StatusBadRequest,
		},
	} {
		t.Run(name, func(t *testing.T) {
			db := mocks.New()
			db.MockOrder.Impl.Find = func(ctx context.Context, query domain.OrderFindQuery) ([]domain.Order, error) {
				return []domain.Order{asOrder("order-1", domain.OrderSpec{Number: "SL-1"})}, nil
			}

			e := echo.New()
			c, resp := httptestutil.Get(e, testcase.when)
			err := handlers.FindOrdersHandler(db.MockOrder)(c)

			if testcase.then == nil {
				if codeOf(err) != testcase.code {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]domain.OrderFindQuery{*testcase.then}, []domain.OrderFindQuery(db.MockOrder.Calls.Find)); diff != "" {
				t.Errorf("query (-want +got):\n%s", diff)
			}
			if body := decode[[]apiorders.Order](t, resp); len(body) != 1 {
				t.Errorf("unexpected body: %+v", body)
			}
		})
	}
}

func TestPutOrderStatusHandler(t *testing.T) {
	noticed := []string{}
	notices := func(o domain.Order) []domain.NotificationSpec {
		noticed = append(noticed, o.Number)
		return nil
	}

	for name, testcase := range map[string]struct {
		body string
		err  error
		code int
	}{
		"valid transition":   {body: `{"status": "shipped"}`, code: http.StatusOK},
		"unknown status":     {body: `{"status": "lost"}`, code: http.StatusBadRequest},
		"invalid transition": {body: `{"status": "pending"}`, err: domain.ErrInvalidTransition, code: http.StatusConflict},
		"missing order":      {body: `{"status": "shipped"}`, err: domain.ErrMissing, code: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			db := mocks.New()
			db.MockOrder.Impl.SetStatus = func(ctx context.Context, orderId string, next domain.OrderStatus, n orderdb.Notices) (domain.Order, error) {
				if testcase.err != nil {
					return domain.Order{}, testcase.err
				}
				o := asOrder(orderId, domain.OrderSpec{Number: "SL-1"})
				o.Status = next
				n(o)
				return o, nil
			}

			e := echo.New()
			c, resp := httptestutil.Put(
				e, "/api/admin/orders/order-1/status/", strings.NewReader(testcase.body),
				httptestutil.ContentType("application/json"),
			)
			c.SetParamNames("orderId")
			c.SetParamValues("order-1")
			err := handlers.PutOrderStatusHandler(db.MockOrder, notices, "orderId")(c)

			if testcase.code != http.StatusOK {
				if codeOf(err) != testcase.code {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s := db.MockOrder.Calls.SetStatus; s.Times() != 1 || s[0].OrderId != "order-1" || s[0].Next != domain.Shipped {
				t.Errorf("SetStatus: %+v", s)
			}
			if o := decode[apiorders.Order](t, resp); o.Status != "shipped" {
				t.Errorf("unexpected body: %+v", o)
			}
			if diff := cmp.Diff([]string{"SL-1"}, noticed); diff != "" {
				t.Errorf("notices (-want +got):\n%s", diff)
			}
		})
	}
}
