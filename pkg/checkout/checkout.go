// Package checkout places orders and settles their payments.
//
// Totals proposed by customers are never trusted.
// After an order is stored, its total is recalculated from stored prices
// (see OrderInterface.RecalculateTotal), and only the recalculated total is charged.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sareeloom/storefront/pkg/domain"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
	xe "github.com/sareeloom/storefront/pkg/errors"
	"github.com/sareeloom/storefront/pkg/payment"
)

// ErrGatewayUnavailable is returned when a payment cannot be prepared on the payment gateway.
var ErrGatewayUnavailable = errors.New("payment gateway is not available")

// Line is a line of checkout request.
type Line struct {
	ProductId string
	Quantity  int
	AddonIds  []string
}

type Request struct {
	Lines         []Line
	CouponCode    string
	PaymentMethod domain.PaymentMethod
	Shipping      domain.ShippingAddress

	// total the customer has seen. nil if unknown.
	ClientTotal *domain.Amount
}

// Placed is the result of PlaceOrder.
type Placed struct {
	Order domain.Order

	// for online payment. Empty for cash-on-delivery.
	GatewayOrderId string
	KeyId          string
	Currency       string
}

type Config struct {
	Rules    pricing.Rules
	Currency string

	// secret to verify payment signatures.
	KeySecret string

	// secret to verify webhook signatures.
	WebhookSecret string

	// recipient of new order alerts. Empty means no alerts.
	AdminEmail string
}

type Checkout struct {
	catalog catalogdb.CatalogInterface
	coupons coupondb.CouponInterface
	orders  orderdb.OrderInterface
	gateway payment.Gateway
	config  Config
	logger  echo.Logger

	now    func() time.Time
	number func(time.Time) string
}

type Option func(*Checkout) *Checkout

// WithClock replaces the clock.
func WithClock(now func() time.Time) Option {
	return func(c *Checkout) *Checkout {
		c.now = now
		return c
	}
}

// WithNumbering replaces the generator of order numbers.
func WithNumbering(number func(time.Time) string) Option {
	return func(c *Checkout) *Checkout {
		c.number = number
		return c
	}
}

func New(
	catalog catalogdb.CatalogInterface,
	coupons coupondb.CouponInterface,
	orders orderdb.OrderInterface,
	gateway payment.Gateway,
	config Config,
	logger echo.Logger,
	options ...Option,
) *Checkout {
	if config.Currency == "" {
		config.Currency = "INR"
	}
	c := &Checkout{
		catalog: catalog,
		coupons: coupons,
		orders:  orders,
		gateway: gateway,
		config:  config,
		logger:  logger,
		now:     time.Now,
		number:  OrderNumber,
	}
	for _, opt := range options {
		c = opt(c)
	}
	return c
}

// OrderNumber returns a human-readable order number, like "SL-20241020-7F3A9C2B".
func OrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SL-%s-%s", t.UTC().Format("20060102"), suffix)
}

// Lines resolves products and add-ons of lines and validates them.
//
// # Returns
//
// - []pricing.Line: lines in the same order as given.
//
// - error: domain.ErrEmptyOrder, or *domain.LineError for the first invalid line.
func (c *Checkout) Lines(ctx context.Context, lines []Line) ([]pricing.Line, error) {
	if len(lines) == 0 {
		return nil, xe.Wrap(domain.ErrEmptyOrder)
	}

	productIds := []string{}
	addonIds := []string{}
	seen := map[string]struct{}{}
	for _, l := range lines {
		if _, ok := seen[l.ProductId]; ok {
			return nil, xe.Wrap(&domain.LineError{
				ProductId: l.ProductId,
				Err:       fmt.Errorf("%w: product appears in two lines", domain.ErrInvalidQuantity),
			})
		}
		seen[l.ProductId] = struct{}{}

		addonSeen := map[string]struct{}{}
		for _, aid := range l.AddonIds {
			if _, ok := addonSeen[aid]; ok {
				return nil, xe.Wrap(&domain.LineError{
					ProductId: l.ProductId,
					Err:       fmt.Errorf("%w: add-on %s appears twice", domain.ErrInvalidQuantity, aid),
				})
			}
			addonSeen[aid] = struct{}{}
		}
		productIds = append(productIds, l.ProductId)
		addonIds = append(addonIds, l.AddonIds...)
	}

	products, err := c.catalog.Get(ctx, productIds)
	if err != nil {
		return nil, err
	}
	addons := map[string]domain.Addon{}
	if len(addonIds) != 0 {
		if addons, err = c.catalog.GetAddons(ctx, addonIds); err != nil {
			return nil, err
		}
	}

	resolved := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.ProductId]
		if !ok {
			return nil, xe.Wrap(&domain.LineError{ProductId: l.ProductId, Err: domain.ErrProductUnavailable})
		}
		line := pricing.Line{Product: p, Quantity: l.Quantity, Addons: []domain.Addon{}}
		for _, aid := range l.AddonIds {
			a, ok := addons[aid]
			if !ok {
				return nil, xe.Wrap(&domain.LineError{
					ProductId: l.ProductId,
					Err:       fmt.Errorf("%w: unknown add-on %s", domain.ErrProductUnavailable, aid),
				})
			}
			line.Addons = append(line.Addons, a)
		}
		if err := c.config.Rules.ValidateLine(line); err != nil {
			return nil, xe.Wrap(err)
		}
		resolved = append(resolved, line)
	}
	return resolved, nil
}

// Quote calculates the breakdown for lines, as a customer will be charged.
func (c *Checkout) Quote(ctx context.Context, lines []Line, couponCode string) (domain.Breakdown, []domain.OrderItem, error) {
	resolved, err := c.Lines(ctx, lines)
	if err != nil {
		return domain.Breakdown{}, nil, err
	}
	items := make([]domain.OrderItem, 0, len(resolved))
	for _, l := range resolved {
		items = append(items, pricing.Snapshot(l))
	}

	var coupon *domain.Coupon
	if strings.TrimSpace(couponCode) != "" {
		cp, err := c.coupons.Get(ctx, couponCode)
		if errors.Is(err, domain.ErrMissing) {
			return domain.Breakdown{}, nil, xe.Wrap(&domain.CouponError{
				Code: domain.NormalizeCouponCode(couponCode), Reason: domain.CouponUnknown,
			})
		}
		if err != nil {
			return domain.Breakdown{}, nil, err
		}
		coupon = &cp
	}

	b, err := c.config.Rules.Quote(items, coupon, c.now())
	if err != nil {
		return domain.Breakdown{}, nil, xe.Wrap(err)
	}
	return b, items, nil
}

// PlaceOrder stores the order of the user and prepares its payment.
//
// For online payment, a gateway order for the recalculated total is created.
// When that fails, the order is left pending, and it will expire.
//
// Cash-on-delivery orders are confirmed at once.
func (c *Checkout) PlaceOrder(ctx context.Context, user domain.User, req Request) (Placed, error) {
	method, err := domain.AsPaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return Placed{}, xe.Wrap(fmt.Errorf("%w: %s", domain.ErrInvalidPaymentMethod, err))
	}
	if err := req.Shipping.Validate(); err != nil {
		return Placed{}, xe.Wrap(err)
	}

	tentative, items, err := c.Quote(ctx, req.Lines, req.CouponCode)
	if err != nil {
		return Placed{}, err
	}
	if method == domain.Online && tentative.Total <= 0 {
		return Placed{}, xe.Wrap(fmt.Errorf(
			"%w: nothing to pay online. choose cash on delivery", domain.ErrInvalidAmount,
		))
	}

	var couponCode *string
	if code := domain.NormalizeCouponCode(req.CouponCode); code != "" {
		couponCode = &code
	}
	created, err := c.orders.Create(ctx, domain.OrderSpec{
		Number:        c.number(c.now()),
		UserId:        user.Id,
		Email:         user.Email,
		PaymentMethod: method,
		CouponCode:    couponCode,
		Shipping:      req.Shipping,
		Items:         items,
		Breakdown:     tentative,
	})
	if err != nil {
		return Placed{}, err
	}

	order, err := c.orders.RecalculateTotal(ctx, created.Id, c.config.Rules, c.now())
	if err != nil {
		return Placed{}, err
	}
	if req.ClientTotal != nil && *req.ClientTotal != order.Total {
		c.logger.Warnf(
			"order %s: total from client (%s) differs from recalculated total (%s). user = %s",
			order.Number, *req.ClientTotal, order.Total, user.Id,
		)
	}

	if method == domain.CashOnDelivery {
		settled, err := c.orders.ConfirmCashOnDelivery(ctx, order.Id, c.ConfirmationNotices)
		if err != nil {
			return Placed{}, err
		}
		c.warnSettlement(settled)
		return Placed{Order: settled.Order}, nil
	}

	gwOrder, err := c.gateway.CreateOrder(ctx, order.Number, order.Total, c.config.Currency)
	if err != nil {
		c.logger.Errorf("order %s: cannot create payment gateway order: %+v", order.Number, err)
		return Placed{}, xe.Wrap(fmt.Errorf("%w: %w", ErrGatewayUnavailable, err))
	}
	if gwOrder.Amount != order.Total {
		c.logger.Warnf(
			"order %s: gateway order %s has amount %s, not %s",
			order.Number, gwOrder.Id, gwOrder.Amount, order.Total,
		)
	}
	attached, err := c.orders.AttachGatewayOrder(ctx, order.Id, gwOrder.Id)
	if err != nil {
		return Placed{}, err
	}

	return Placed{
		Order:          attached,
		GatewayOrderId: gwOrder.Id,
		KeyId:          c.gateway.KeyId(),
		Currency:       gwOrder.Currency,
	}, nil
}

// VerifyPayment settles the payment reported by the customer's checkout widget.
//
// # Returns
//
// - error: domain.ErrSignatureMismatch when the signature is wrong.
// The payment of the order is marked failed then.
// domain.ErrMissing when the order is not the user's.
func (c *Checkout) VerifyPayment(
	ctx context.Context, user domain.User,
	orderId, gatewayOrderId, paymentId, signature string,
) (domain.Order, error) {
	order, err := c.orders.Get(ctx, orderId)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserId != user.Id {
		return domain.Order{}, xe.Wrap(fmt.Errorf("%w: order %s", domain.ErrMissing, orderId))
	}
	if order.GatewayOrderId == nil || *order.GatewayOrderId != gatewayOrderId {
		return domain.Order{}, xe.Wrap(fmt.Errorf(
			"%w: gateway order %s is not for order %s", domain.ErrSignatureMismatch, gatewayOrderId, order.Number,
		))
	}

	if err := payment.VerifyPaymentSignature(c.config.KeySecret, gatewayOrderId, paymentId, signature); err != nil {
		c.logger.Warnf("order %s: payment %s has wrong signature", order.Number, paymentId)
		if _, ferr := c.orders.MarkFailed(ctx, gatewayOrderId); ferr != nil {
			c.logger.Errorf("order %s: cannot mark payment failed: %+v", order.Number, ferr)
		}
		return domain.Order{}, xe.Wrap(err)
	}

	settled, err := c.orders.MarkPaid(ctx, gatewayOrderId, paymentId, c.ConfirmationNotices)
	if err != nil {
		return domain.Order{}, err
	}
	c.warnSettlement(settled)
	return settled.Order, nil
}

// HandleWebhook processes a payment event from the gateway.
//
// Events for unknown orders and unknown events are ignored.
//
// # Returns
//
// - error: domain.ErrSignatureMismatch when the signature is wrong.
func (c *Checkout) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if err := payment.VerifyWebhookSignature(c.config.WebhookSecret, body, signature); err != nil {
		return xe.Wrap(err)
	}
	ev, err := payment.ParseWebhook(body)
	if err != nil {
		return xe.Wrap(fmt.Errorf("%w: malformed webhook: %s", domain.ErrSignatureMismatch, err))
	}
	p := ev.Payment()
	if ev.Event != payment.EventPaymentCaptured && ev.Event != payment.EventPaymentFailed {
		c.logger.Debugf("webhook: ignored event %s", ev.Event)
		return nil
	}

	order, err := c.orders.GetByGatewayOrder(ctx, p.OrderId)
	if errors.Is(err, domain.ErrMissing) {
		c.logger.Warnf("webhook %s: unknown gateway order %s", ev.Event, p.OrderId)
		return nil
	}
	if err != nil {
		return err
	}

	if ev.Event == payment.EventPaymentFailed {
		if _, err := c.orders.MarkFailed(ctx, p.OrderId); err != nil {
			return err
		}
		c.logger.Infof("order %s: payment %s failed", order.Number, p.Id)
		return nil
	}

	if captured := domain.Amount(p.Amount); captured != order.Total {
		c.logger.Warnf(
			"order %s: payment %s captured %s, but the order total is %s",
			order.Number, p.Id, captured, order.Total,
		)
	}
	settled, err := c.orders.MarkPaid(ctx, p.OrderId, p.Id, c.ConfirmationNotices)
	if err != nil {
		return err
	}
	c.warnSettlement(settled)
	return nil
}

// Cancel cancels the order by its customer.
//
// Only pending or confirmed orders can be cancelled by customers.
func (c *Checkout) Cancel(ctx context.Context, user domain.User, orderId string) (domain.Order, error) {
	order, err := c.orders.Get(ctx, orderId)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserId != user.Id {
		return domain.Order{}, xe.Wrap(fmt.Errorf("%w: order %s", domain.ErrMissing, orderId))
	}
	if !order.Status.Cancellable() {
		return domain.Order{}, xe.Wrap(fmt.Errorf(
			"%w: order %s is %s already", domain.ErrInvalidTransition, order.Number, order.Status,
		))
	}
	cancelled, err := c.orders.SetStatus(ctx, orderId, domain.Cancelled, c.StatusNotices)
	if err != nil {
		return domain.Order{}, err
	}
	if cancelled.PaymentStatus == domain.PaymentPaid {
		c.logger.Warnf("order %s: cancelled after payment. refund is needed", cancelled.Number)
	}
	return cancelled, nil
}

func (c *Checkout) warnSettlement(s orderdb.Settlement) {
	if !s.Transitioned {
		return
	}
	if s.CouponOverused && s.Order.CouponCode != nil {
		c.logger.Warnf(
			"order %s: coupon %s has been used beyond its usage limit",
			s.Order.Number, *s.Order.CouponCode,
		)
	}
	if len(s.StockShort) != 0 {
		c.logger.Warnf("order %s: stock of %v ran short. it is oversold", s.Order.Number, s.StockShort)
	}
	if s.Order.Status == domain.Cancelled && s.Order.PaymentStatus == domain.PaymentPaid {
		c.logger.Warnf("order %s: paid after cancellation. refund is needed", s.Order.Number)
	}
}

// OrderMessage is the payload of notifications about an order.
type OrderMessage struct {
	OrderId       string `json:"order_id"`
	Number        string `json:"number"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Total         string `json:"total"`
	Items         int    `json:"items"`
}

func messageOf(o domain.Order) json.RawMessage {
	items := 0
	for _, it := range o.Items {
		items += it.Quantity
	}
	b, _ := json.Marshal(OrderMessage{
		OrderId:       o.Id,
		Number:        o.Number,
		Email:         o.Email,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total.String(),
		Items:         items,
	})
	return b
}

// ConfirmationNotices are notifications sent when an order is confirmed:
// a confirmation to the customer and an alert to the shop.
func (c *Checkout) ConfirmationNotices(o domain.Order) []domain.NotificationSpec {
	payload := messageOf(o)
	notices := []domain.NotificationSpec{}
	if o.Email != "" {
		notices = append(notices, domain.NotificationSpec{
			Kind: domain.OrderConfirmation, Recipient: o.Email, Payload: payload,
		})
	}
	if c.config.AdminEmail != "" {
		notices = append(notices, domain.NotificationSpec{
			Kind: domain.NewOrderAlert, Recipient: c.config.AdminEmail, Payload: payload,
		})
	}
	return notices
}

// StatusNotices are notifications sent when status of an order is changed.
func (c *Checkout) StatusNotices(o domain.Order) []domain.NotificationSpec {
	if o.Email == "" {
		return nil
	}
	return []domain.NotificationSpec{
		{Kind: domain.OrderStatusChanged, Recipient: o.Email, Payload: messageOf(o)},
	}
}
