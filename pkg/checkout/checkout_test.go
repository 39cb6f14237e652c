package checkout_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/gommon/log"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	catalogmock "github.com/sareeloom/storefront/pkg/domain/catalog/db/mock"
	couponmock "github.com/sareeloom/storefront/pkg/domain/coupon/db/mock"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	ordermock "github.com/sareeloom/storefront/pkg/domain/order/db/mock"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
	"github.com/sareeloom/storefront/pkg/payment"
	paymentmock "github.com/sareeloom/storefront/pkg/payment/mock"
)

func ref[T any](v T) *T {
	return &v
}

var now = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)

var rules = pricing.Rules{
	DeliveryCharge:        domain.Rupees(99),
	FreeDeliveryThreshold: domain.Rupees(2999),
	MaxQuantityPerLine:    10,
}

var customer = domain.User{Id: "user-1", Email: "meera@example.com", Name: "Meera"}

var address = domain.ShippingAddress{
	Name: "Meera", Phone: "9876543210", Line1: "12 Temple Street",
	City: "Kanchipuram", State: "Tamil Nadu", PostalCode: "631501", Country: "IN",
}

var silk = domain.Product{
	Id: "p-silk", Slug: "kanjivaram-silk", Name: "Kanjivaram Silk",
	Price: domain.Rupees(4000), Stock: 5, Active: true,
}

var cotton = domain.Product{
	Id: "p-cotton", Slug: "chettinad-cotton", Name: "Chettinad Cotton",
	Price: domain.Rupees(1000), SalePrice: ref(domain.Rupees(800)), Stock: 1, Active: true,
}

var fallPico = domain.Addon{Id: "a-fall", Name: "Fall & Pico", Price: domain.Rupees(150), Active: true}

type fixture struct {
	catalog *catalogmock.CatalogInterface
	coupons *couponmock.CouponInterface
	orders  *ordermock.OrderInterface
	gateway *paymentmock.Gateway
	logs    *bytes.Buffer
	testee  *checkout.Checkout
}

func setup() fixture {
	catalog := catalogmock.NewCatalogInterface()
	catalog.Impl.Get = func(ctx context.Context, ids []string) (map[string]domain.Product, error) {
		all := map[string]domain.Product{silk.Id: silk, cotton.Id: cotton}
		found := map[string]domain.Product{}
		for _, id := range ids {
			if p, ok := all[id]; ok {
				found[id] = p
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

	coupons := couponmock.NewCouponInterface()
	coupons.Impl.Get = func(ctx context.Context, code string) (domain.Coupon, error) {
		switch domain.NormalizeCouponCode(code) {
		case "FESTIVE10":
			return domain.Coupon{Code: "FESTIVE10", Type: domain.Percent, Value: 10, Active: true}, nil
		case "FLAT5000":
			return domain.Coupon{Code: "FLAT5000", Type: domain.Fixed, Value: int64(domain.Rupees(5000)), Active: true}, nil
		case "OLD":
			return domain.Coupon{Code: "OLD", Type: domain.Percent, Value: 10, Active: true, ValidUntil: ref(now.Add(-time.Hour))}, nil
		}
		return domain.Coupon{}, domain.ErrMissing
	}

	orders := ordermock.NewOrderInterface()
	orders.Impl.Create = func(ctx context.Context, spec domain.OrderSpec) (domain.Order, error) {
		return asOrder("order-1", spec), nil
	}

	logs := new(bytes.Buffer)
	logger := log.New("checkout")
	logger.SetOutput(logs)

	gateway := paymentmock.New("rzp_test_key")
	return fixture{
		catalog: catalog,
		coupons: coupons,
		orders:  orders,
		gateway: gateway,
		logs:    logs,
		testee: checkout.New(
			catalog, coupons, orders, gateway,
			checkout.Config{
				Rules:         rules,
				KeySecret:     "key-secret",
				WebhookSecret: "webhook-secret",
				AdminEmail:    "shop@example.com",
			},
			logger,
			checkout.WithClock(func() time.Time { return now }),
			checkout.WithNumbering(func(time.Time) string { return "SL-20241020-0000CAFE" }),
		),
	}
}

func TestOrderNumber(t *testing.T) {
	a := checkout.OrderNumber(now)
	b := checkout.OrderNumber(now)
	if !strings.HasPrefix(a, "SL-20241020-") || len(a) != len("SL-20241020-")+8 {
		t.Errorf("unexpected format: %s", a)
	}
	if a == b {
		t.Errorf("order numbers are not unique: %s", a)
	}
}

func TestQuote(t *testing.T) {
	for name, testcase := range map[string]struct {
		lines  []checkout.Line
		coupon string
		then   domain.Breakdown
	}{
		"below free delivery threshold": {
			lines: []checkout.Line{{ProductId: cotton.Id, Quantity: 1}},
			then: domain.Breakdown{
				Subtotal: domain.Rupees(800), DeliveryCharge: domain.Rupees(99), Total: domain.Rupees(899),
			},
		},
		"with add-ons and coupon": {
			lines: []checkout.Line{
				{ProductId: silk.Id, Quantity: 1, AddonIds: []string{fallPico.Id}},
				{ProductId: cotton.Id, Quantity: 1},
			},
			coupon: "festive10",
			then: domain.Breakdown{
				Subtotal: domain.Rupees(4800), AddonsTotal: domain.Rupees(150),
				Discount: domain.Rupees(495), Total: domain.Rupees(4455),
			},
		},
		"discount never makes total negative": {
			lines:  []checkout.Line{{ProductId: cotton.Id, Quantity: 1}},
			coupon: "FLAT5000",
			then: domain.Breakdown{
				Subtotal: domain.Rupees(800), Discount: domain.Rupees(800),
				DeliveryCharge: domain.Rupees(99), Total: domain.Rupees(99),
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := setup()
			actual, items, err := f.testee.Quote(context.Background(), testcase.lines, testcase.coupon)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(testcase.then, actual); diff != "" {
				t.Errorf("breakdown (-want +got):\n%s", diff)
			}
			if len(items) != len(testcase.lines) {
				t.Errorf("items: %+v", items)
			}
		})
	}
}

func TestPlaceOrder_Online(t *testing.T) {
	f := setup()
	f.orders.Impl.RecalculateTotal = func(ctx context.Context, orderId string, r pricing.Rules, at time.Time) (domain.Order, error) {
		// price of silk has been raised between the quote and the order.
		o := f.orders.Calls.Create[0]
		return domain.Order{
			Id: orderId, Number: o.Number, UserId: o.UserId, Email: o.Email,
			Status: domain.Pending, PaymentStatus: domain.PaymentPending, PaymentMethod: domain.Online,
			Breakdown: domain.Breakdown{Subtotal: domain.Rupees(4200), Total: domain.Rupees(4200)},
			Items:     o.Items,
		}, nil
	}
	f.gateway.Impl.CreateOrder = func(ctx context.Context, receipt string, amount domain.Amount, currency string) (payment.Order, error) {
		return payment.Order{Id: "order_RZP1", Amount: amount, Currency: currency, Receipt: receipt}, nil
	}
	f.orders.Impl.AttachGatewayOrder = func(ctx context.Context, orderId string, gatewayOrderId string) (domain.Order, error) {
		return domain.Order{
			Id: orderId, Number: "SL-20241020-0000CAFE", Status: domain.Pending,
			Breakdown:      domain.Breakdown{Subtotal: domain.Rupees(4200), Total: domain.Rupees(4200)},
			GatewayOrderId: &gatewayOrderId,
		}, nil
	}

	clientTotal := domain.Rupees(4000)
	placed, err := f.testee.PlaceOrder(context.Background(), customer, checkout.Request{
		Lines:       []checkout.Line{{ProductId: silk.Id, Quantity: 1}},
		Shipping:    address,
		ClientTotal: &clientTotal,
	})
	if err != nil {
		t.Fatal(err)
	}

	if placed.GatewayOrderId != "order_RZP1" || placed.KeyId != "rzp_test_key" || placed.Currency != "INR" {
		t.Errorf("unexpected result: %+v", placed)
	}

	if f.orders.Calls.Create.Times() != 1 {
		t.Fatalf("Create is called %d times", f.orders.Calls.Create.Times())
	}
	spec := f.orders.Calls.Create[0]
	if spec.Number != "SL-20241020-0000CAFE" || spec.UserId != customer.Id || spec.Email != customer.Email ||
		spec.PaymentMethod != domain.Online || spec.CouponCode != nil {
		t.Errorf("unexpected spec: %+v", spec)
	}
	if spec.Breakdown.Total != domain.Rupees(4000) {
		t.Errorf("tentative total: %s", spec.Breakdown.Total)
	}

	if diff := cmp.Diff(
		[]paymentmock.CreateOrderArgs{{Receipt: "SL-20241020-0000CAFE", Amount: domain.Rupees(4200), Currency: "INR"}},
		f.gateway.Calls.CreateOrder,
	); diff != "" {
		t.Errorf("gateway order should be for recalculated total (-want +got):\n%s", diff)
	}
	if c := f.orders.Calls.AttachGatewayOrder; c.Times() != 1 || c[0].OrderId != "order-1" || c[0].GatewayOrderId != "order_RZP1" {
		t.Errorf("AttachGatewayOrder: %+v", c)
	}
	if f.orders.Calls.ConfirmCashOnDelivery.Times() != 0 {
		t.Error("online order is confirmed without payment")
	}
	if !strings.Contains(f.logs.String(), "differs from recalculated total") {
		t.Errorf("mismatch of totals is not logged: %s", f.logs.String())
	}
}

func TestPlaceOrder_CashOnDelivery(t *testing.T) {
	f := setup()
	f.orders.Impl.RecalculateTotal = func(ctx context.Context, orderId string, r pricing.Rules, at time.Time) (domain.Order, error) {
		if r != rules || !at.Equal(now) {
			t.Errorf("unexpected args: %+v, %s", r, at)
		}
		return asOrder(orderId, f.orders.Calls.Create[0]), nil
	}
	var confirmed domain.Order
	f.orders.Impl.ConfirmCashOnDelivery = func(ctx context.Context, orderId string, notices orderdb.Notices) (orderdb.Settlement, error) {
		confirmed = asOrder(orderId, f.orders.Calls.Create[0])
		confirmed.Status = domain.Confirmed
		return orderdb.Settlement{Order: confirmed, Transitioned: true}, nil
	}

	placed, err := f.testee.PlaceOrder(context.Background(), customer, checkout.Request{
		Lines:         []checkout.Line{{ProductId: cotton.Id, Quantity: 1, AddonIds: []string{fallPico.Id}}},
		CouponCode:    " festive10 ",
		PaymentMethod: domain.CashOnDelivery,
		Shipping:      address,
	})
	if err != nil {
		t.Fatal(err)
	}
	if placed.GatewayOrderId != "" || placed.KeyId != "" {
		t.Errorf("cod order has gateway order: %+v", placed)
	}
	if placed.Order.Status != domain.Confirmed {
		t.Errorf("status: %s", placed.Order.Status)
	}
	if f.gateway.Calls.CreateOrder != nil {
		t.Error("gateway is called for cod order")
	}

	spec := f.orders.Calls.Create[0]
	if spec.CouponCode == nil || *spec.CouponCode != "FESTIVE10" {
		t.Errorf("coupon code should be normalized: %v", spec.CouponCode)
	}
	expectedItems := []domain.OrderItem{{
		ProductId: cotton.Id, ProductName: cotton.Name, Quantity: 1, UnitPrice: domain.Rupees(800),
		Addons: []domain.AddonSnapshot{{Id: fallPico.Id, Name: fallPico.Name, Price: domain.Rupees(150)}},
	}}
	if diff := cmp.Diff(expectedItems, spec.Items); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}

	notices := f.orders.Calls.ConfirmCashOnDelivery[0].Notices(confirmed)
	kinds := []domain.NotificationKind{}
	recipients := []string{}
	for _, n := range notices {
		kinds = append(kinds, n.Kind)
		recipients = append(recipients, n.Recipient)
	}
	if diff := cmp.Diff([]domain.NotificationKind{domain.OrderConfirmation, domain.NewOrderAlert}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{customer.Email, "shop@example.com"}, recipients); diff != "" {
		t.Errorf("recipients (-want +got):\n%s", diff)
	}
}

func TestPlaceOrder_CashOnDelivery_OutOfStock(t *testing.T) {
	f := setup()
	f.orders.Impl.RecalculateTotal = func(ctx context.Context, orderId string, r pricing.Rules, at time.Time) (domain.Order, error) {
		return asOrder(orderId, f.orders.Calls.Create[0]), nil
	}
	f.orders.Impl.ConfirmCashOnDelivery = func(ctx context.Context, orderId string, notices orderdb.Notices) (orderdb.Settlement, error) {
		return orderdb.Settlement{}, &domain.LineError{
			ProductId: cotton.Id, Err: fmt.Errorf("%w: sold by another order", domain.ErrOutOfStock),
		}
	}

	_, err := f.testee.PlaceOrder(context.Background(), customer, checkout.Request{
		Lines:         []checkout.Line{{ProductId: cotton.Id, Quantity: 1}},
		PaymentMethod: domain.CashOnDelivery,
		Shipping:      address,
	})
	lineError(cotton.Id, domain.ErrOutOfStock)(t, err)
}

func TestPlaceOrder_Rejected(t *testing.T) {
	for name, testcase := range map[string]struct {
		when checkout.Request
		then func(*testing.T, error)
	}{
		"empty": {
			when: checkout.Request{Shipping: address},
			then: errorIs(domain.ErrEmptyOrder),
		},
		"unknown payment method": {
			when: checkout.Request{
				Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 1}}, Shipping: address, PaymentMethod: "barter",
			},
			then: errorIs(domain.ErrInvalidPaymentMethod),
		},
		"incomplete address": {
			when: checkout.Request{
				Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 1}}, Shipping: domain.ShippingAddress{Name: "Meera"},
			},
			then: errorIs(domain.ErrInvalidAddress),
		},
		"out of stock": {
			when: checkout.Request{Lines: []checkout.Line{{ProductId: cotton.Id, Quantity: 2}}, Shipping: address},
			then: lineError(cotton.Id, domain.ErrOutOfStock),
		},
		"too many": {
			when: checkout.Request{Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 11}}, Shipping: address},
			then: lineError(silk.Id, domain.ErrInvalidQuantity),
		},
		"unknown product": {
			when: checkout.Request{Lines: []checkout.Line{{ProductId: "p-ghost", Quantity: 1}}, Shipping: address},
			then: lineError("p-ghost", domain.ErrProductUnavailable),
		},
		"unknown add-on": {
			when: checkout.Request{
				Lines:    []checkout.Line{{ProductId: silk.Id, Quantity: 1, AddonIds: []string{"a-ghost"}}},
				Shipping: address,
			},
			then: lineError(silk.Id, domain.ErrProductUnavailable),
		},
		"duplicated lines": {
			when: checkout.Request{
				Lines:    []checkout.Line{{ProductId: silk.Id, Quantity: 1}, {ProductId: silk.Id, Quantity: 2}},
				Shipping: address,
			},
			then: lineError(silk.Id, domain.ErrInvalidQuantity),
		},
		"duplicated add-ons in a line": {
			when: checkout.Request{
				Lines: []checkout.Line{
					{ProductId: silk.Id, Quantity: 1, AddonIds: []string{fallPico.Id, fallPico.Id}},
				},
				Shipping: address,
			},
			then: lineError(silk.Id, domain.ErrInvalidQuantity),
		},
		"unknown coupon": {
			when: checkout.Request{
				Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 1}}, Shipping: address, CouponCode: "nope",
			},
			then: couponError("NOPE", domain.CouponUnknown),
		},
		"expired coupon": {
			when: checkout.Request{
				Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 1}}, Shipping: address, CouponCode: "OLD",
			},
			then: couponError("OLD", domain.CouponExpired),
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := setup()
			_, err := f.testee.PlaceOrder(context.Background(), customer, testcase.when)
			testcase.then(t, err)
			if f.orders.Calls.Create.Times() != 0 {
				t.Error("rejected order is stored")
			}
		})
	}
}

func TestPlaceOrder_NothingToPayOnline(t *testing.T) {
	f := setup()
	testee := checkout.New(
		f.catalog, f.coupons, f.orders, f.gateway,
		checkout.Config{Rules: pricing.Rules{MaxQuantityPerLine: 10}},
		log.New("checkout"),
		checkout.WithClock(func() time.Time { return now }),
	)
	req := checkout.Request{
		Lines:    []checkout.Line{{ProductId: silk.Id, Quantity: 1}},
		Shipping: address, CouponCode: "FLAT5000",
	}

	if _, err := testee.PlaceOrder(context.Background(), customer, req); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("unexpected error: %v", err)
	}
	if f.orders.Calls.Create.Times() != 0 {
		t.Error("order is stored")
	}
}

func TestPlaceOrder_GatewayUnavailable(t *testing.T) {
	f := setup()
	f.orders.Impl.RecalculateTotal = func(ctx context.Context, orderId string, r pricing.Rules, at time.Time) (domain.Order, error) {
		return asOrder(orderId, f.orders.Calls.Create[0]), nil
	}
	expectedErr := errors.New("gateway down")
	f.gateway.Impl.CreateOrder = func(ctx context.Context, receipt string, amount domain.Amount, currency string) (payment.Order, error) {
		return payment.Order{}, expectedErr
	}

	_, err := f.testee.PlaceOrder(context.Background(), customer, checkout.Request{
		Lines: []checkout.Line{{ProductId: silk.Id, Quantity: 1}}, Shipping: address,
	})
	if !errors.Is(err, expectedErr) || !errors.Is(err, checkout.ErrGatewayUnavailable) {
		t.Errorf("unexpected error: %v", err)
	}
	if f.orders.Calls.AttachGatewayOrder.Times() != 0 {
		t.Error("gateway order is attached")
	}
}

func TestVerifyPayment(t *testing.T) {
	pending := domain.Order{
		Id: "order-1", Number: "SL-20241020-0000CAFE", UserId: customer.Id, Email: customer.Email,
		Status: domain.Pending, PaymentStatus: domain.PaymentPending, PaymentMethod: domain.Online,
		GatewayOrderId: ref("order_RZP1"),
	}

	t.Run("valid signature confirms the order", func(t *testing.T) {
		f := setup()
		f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
			return pending, nil
		}
		f.orders.Impl.MarkPaid = func(ctx context.Context, gatewayOrderId, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
			o := pending
			o.Status = domain.Confirmed
			o.PaymentStatus = domain.PaymentPaid
			o.GatewayPaymentId = &paymentId
			o.CouponCode = ref("FESTIVE10")
			return orderdb.Settlement{Order: o, Transitioned: true, CouponOverused: true}, nil
		}

		sig := payment.SignPayment("key-secret", "order_RZP1", "pay_1")
		actual, err := f.testee.VerifyPayment(context.Background(), customer, "order-1", "order_RZP1", "pay_1", sig)
		if err != nil {
			t.Fatal(err)
		}
		if actual.Status != domain.Confirmed || actual.PaymentStatus != domain.PaymentPaid {
			t.Errorf("unexpected order: %+v", actual)
		}
		if c := f.orders.Calls.MarkPaid; c.Times() != 1 || c[0].GatewayOrderId != "order_RZP1" || c[0].PaymentId != "pay_1" {
			t.Errorf("MarkPaid: %+v", c)
		}
		if !strings.Contains(f.logs.String(), "beyond its usage limit") {
			t.Errorf("overuse of coupon is not logged: %s", f.logs.String())
		}
	})

	t.Run("oversold order is logged", func(t *testing.T) {
		f := setup()
		f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
			return pending, nil
		}
		f.orders.Impl.MarkPaid = func(ctx context.Context, gatewayOrderId, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
			o := pending
			o.Status = domain.Confirmed
			o.PaymentStatus = domain.PaymentPaid
			return orderdb.Settlement{Order: o, Transitioned: true, StockShort: []string{silk.Id}}, nil
		}

		sig := payment.SignPayment("key-secret", "order_RZP1", "pay_1")
		if _, err := f.testee.VerifyPayment(context.Background(), customer, "order-1", "order_RZP1", "pay_1", sig); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(f.logs.String(), "oversold") || !strings.Contains(f.logs.String(), silk.Id) {
			t.Errorf("oversold order is not logged: %s", f.logs.String())
		}
	})

	t.Run("wrong signature fails the payment", func(t *testing.T) {
		f := setup()
		f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
			return pending, nil
		}
		f.orders.Impl.MarkFailed = func(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
			o := pending
			o.PaymentStatus = domain.PaymentFailed
			return o, nil
		}

		sig := payment.SignPayment("another-secret", "order_RZP1", "pay_1")
		_, err := f.testee.VerifyPayment(context.Background(), customer, "order-1", "order_RZP1", "pay_1", sig)
		if !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Errorf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"order_RZP1"}, []string(f.orders.Calls.MarkFailed)); diff != "" {
			t.Errorf("MarkFailed (-want +got):\n%s", diff)
		}
		if f.orders.Calls.MarkPaid.Times() != 0 {
			t.Error("order is paid with wrong signature")
		}
	})

	t.Run("gateway order of another order", func(t *testing.T) {
		f := setup()
		f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
			return pending, nil
		}
		sig := payment.SignPayment("key-secret", "order_OTHER", "pay_1")
		_, err := f.testee.VerifyPayment(context.Background(), customer, "order-1", "order_OTHER", "pay_1", sig)
		if !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Errorf("unexpected error: %v", err)
		}
		if f.orders.Calls.MarkPaid.Times() != 0 {
			t.Error("order is paid")
		}
	})

	t.Run("order of another user", func(t *testing.T) {
		f := setup()
		f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
			return pending, nil
		}
		sig := payment.SignPayment("key-secret", "order_RZP1", "pay_1")
		_, err := f.testee.VerifyPayment(
			context.Background(), domain.User{Id: "user-2"}, "order-1", "order_RZP1", "pay_1", sig,
		)
		if !errors.Is(err, domain.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestHandleWebhook(t *testing.T) {
	body := func(event string, amount domain.Amount) []byte {
		return []byte(`{"event":"` + event + `","payload":{"payment":{"entity":` +
			`{"id":"pay_1","order_id":"order_RZP1","status":"captured","amount":` + strconv.FormatInt(amount.Paise(), 10) + `}}}}`)
	}
	knownOrder := func(f fixture) {
		f.orders.Impl.GetByGatewayOrder = func(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
			return domain.Order{Id: "order-1", Number: "SL-1", Breakdown: domain.Breakdown{Total: domain.Rupees(4200)}}, nil
		}
	}

	t.Run("captured", func(t *testing.T) {
		f := setup()
		knownOrder(f)
		f.orders.Impl.MarkPaid = func(ctx context.Context, gatewayOrderId, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
			return orderdb.Settlement{Order: domain.Order{Number: "SL-1", Status: domain.Cancelled, PaymentStatus: domain.PaymentPaid}, Transitioned: true}, nil
		}
		b := body(payment.EventPaymentCaptured, domain.Rupees(4200))
		if err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("webhook-secret", b)); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"order_RZP1"}, []string(f.orders.Calls.GetByGatewayOrder)); diff != "" {
			t.Errorf("GetByGatewayOrder (-want +got):\n%s", diff)
		}
		if c := f.orders.Calls.MarkPaid; c.Times() != 1 || c[0].GatewayOrderId != "order_RZP1" || c[0].PaymentId != "pay_1" {
			t.Errorf("MarkPaid: %+v", c)
		}
		if !strings.Contains(f.logs.String(), "refund is needed") {
			t.Errorf("payment after cancellation is not logged: %s", f.logs.String())
		}
		if strings.Contains(f.logs.String(), "but the order total is") {
			t.Errorf("matching amount is reported: %s", f.logs.String())
		}
	})

	t.Run("captured amount differs from the order total", func(t *testing.T) {
		f := setup()
		knownOrder(f)
		f.orders.Impl.MarkPaid = func(ctx context.Context, gatewayOrderId, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
			return orderdb.Settlement{Order: domain.Order{Number: "SL-1", Status: domain.Confirmed}, Transitioned: true}, nil
		}
		b := body(payment.EventPaymentCaptured, domain.Rupees(100))
		if err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("webhook-secret", b)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(f.logs.String(), "order SL-1: payment pay_1 captured") {
			t.Errorf("amount mismatch is not logged: %s", f.logs.String())
		}
	})

	t.Run("failed", func(t *testing.T) {
		f := setup()
		knownOrder(f)
		f.orders.Impl.MarkFailed = func(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
			return domain.Order{}, nil
		}
		b := body(payment.EventPaymentFailed, domain.Rupees(4200))
		if err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("webhook-secret", b)); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"order_RZP1"}, []string(f.orders.Calls.MarkFailed)); diff != "" {
			t.Errorf("MarkFailed (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown gateway order is ignored", func(t *testing.T) {
		for _, event := range []string{payment.EventPaymentCaptured, payment.EventPaymentFailed} {
			f := setup()
			f.orders.Impl.GetByGatewayOrder = func(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
				return domain.Order{}, domain.ErrMissing
			}
			b := body(event, domain.Rupees(4200))
			if err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("webhook-secret", b)); err != nil {
				t.Errorf("%s: unexpected error: %v", event, err)
			}
			if f.orders.Calls.MarkPaid.Times() != 0 || f.orders.Calls.MarkFailed.Times() != 0 {
				t.Errorf("%s: unknown order is settled", event)
			}
		}
	})

	t.Run("other events are ignored", func(t *testing.T) {
		f := setup()
		b := body("order.paid", domain.Rupees(4200))
		if err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("webhook-secret", b)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if f.orders.Calls.GetByGatewayOrder.Times() != 0 {
			t.Error("order is looked up")
		}
	})

	t.Run("wrong signature", func(t *testing.T) {
		f := setup()
		b := body(payment.EventPaymentCaptured, domain.Rupees(4200))
		err := f.testee.HandleWebhook(context.Background(), b, payment.SignWebhook("forged", b))
		if !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCancel(t *testing.T) {
	for name, testcase := range map[string]struct {
		status  domain.OrderStatus
		owner   string
		wantErr error
	}{
		"pending":           {status: domain.Pending, owner: customer.Id},
		"confirmed":         {status: domain.Confirmed, owner: customer.Id},
		"shipped":           {status: domain.Shipped, owner: customer.Id, wantErr: domain.ErrInvalidTransition},
		"order of another":  {status: domain.Pending, owner: "user-2", wantErr: domain.ErrMissing},
		"already cancelled": {status: domain.Cancelled, owner: customer.Id, wantErr: domain.ErrInvalidTransition},
	} {
		t.Run(name, func(t *testing.T) {
			f := setup()
			order := domain.Order{Id: "order-1", Number: "SL-1", UserId: testcase.owner, Email: customer.Email, Status: testcase.status}
			f.orders.Impl.Get = func(ctx context.Context, orderId string) (domain.Order, error) {
				return order, nil
			}
			f.orders.Impl.SetStatus = func(ctx context.Context, orderId string, next domain.OrderStatus, notices orderdb.Notices) (domain.Order, error) {
				o := order
				o.Status = next
				return o, nil
			}

			actual, err := f.testee.Cancel(context.Background(), customer, "order-1")
			if testcase.wantErr != nil {
				if !errors.Is(err, testcase.wantErr) {
					t.Errorf("unexpected error: %v", err)
				}
				if f.orders.Calls.SetStatus.Times() != 0 {
					t.Error("status is changed")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if actual.Status != domain.Cancelled {
				t.Errorf("status: %s", actual.Status)
			}
			call := f.orders.Calls.SetStatus[0]
			if call.Next != domain.Cancelled {
				t.Errorf("SetStatus: %+v", call)
			}
			notices := call.Notices(actual)
			if len(notices) != 1 || notices[0].Kind != domain.OrderStatusChanged || notices[0].Recipient != customer.Email {
				t.Errorf("notices: %+v", notices)
			}
		})
	}
}

func asOrder(orderId string, spec domain.OrderSpec) domain.Order {
	paymentStatus := domain.PaymentPending
	if spec.PaymentMethod == domain.CashOnDelivery {
		paymentStatus = domain.PaymentCOD
	}
	return domain.Order{
		Id: orderId, Number: spec.Number, UserId: spec.UserId, Email: spec.Email,
		Status: domain.Pending, PaymentStatus: paymentStatus, PaymentMethod: spec.PaymentMethod,
		Breakdown: spec.Breakdown, CouponCode: spec.CouponCode, Shipping: spec.Shipping, Items: spec.Items,
	}
}

func errorIs(expected error) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		if !errors.Is(err, expected) {
			t.Errorf("expected %v, but got %v", expected, err)
		}
	}
}

func lineError(productId string, expected error) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		le := new(domain.LineError)
		if !errors.As(err, &le) {
			t.Fatalf("expected LineError, but got %v", err)
		}
		if le.ProductId != productId || !errors.Is(le, expected) {
			t.Errorf("unexpected line error: %v", le)
		}
	}
}

func couponError(code string, reason domain.CouponReason) func(*testing.T, error) {
	return func(t *testing.T, err error) {
		t.Helper()
		ce := new(domain.CouponError)
		if !errors.As(err, &ce) {
			t.Fatalf("expected CouponError, but got %v", err)
		}
		if ce.Code != code || ce.Reason != reason {
			t.Errorf("unexpected coupon error: %v", ce)
		}
	}
}
