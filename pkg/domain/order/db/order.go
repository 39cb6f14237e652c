package db

import (
	"context"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
)

// Notices builds notifications to be enqueued with a change of the order.
//
// It receives the order after the change. nil means no notifications.
type Notices func(domain.Order) []domain.NotificationSpec

// Settlement is a result of confirming an order.
type Settlement struct {
	Order domain.Order

	// true when the call changed the order.
	// false when the order had been settled already.
	Transitioned bool

	// true when the coupon has been used more than its limit by this order.
	CouponOverused bool

	// products which had less stock than ordered when the order was confirmed.
	// Their stocks are 0 now.
	StockShort []string
}

type OrderInterface interface {
	// Create persists the order with its items.
	//
	// The order is pending. Payment status is "cod" for cash-on-delivery, otherwise pending.
	Create(ctx context.Context, spec domain.OrderSpec) (domain.Order, error)

	// RecalculateTotal re-derives prices and totals of a pending order
	// from current prices of products and add-ons and the coupon.
	//
	// Prices of items are rewritten. When the coupon is no longer applicable,
	// it is detached from the order.
	//
	// # Returns
	//
	// - domain.Order: the order after recalculation.
	//
	// - error: ErrMissing when the order does not exist.
	// ErrInvalidTransition when the order is not pending.
	RecalculateTotal(ctx context.Context, orderId string, rules pricing.Rules, now time.Time) (domain.Order, error)

	// Get the order.
	//
	// # Returns
	//
	// - error: ErrMissing when the order does not exist.
	Get(ctx context.Context, orderId string) (domain.Order, error)

	// GetByGatewayOrder returns the order which the payment gateway order is attached to.
	GetByGatewayOrder(ctx context.Context, gatewayOrderId string) (domain.Order, error)

	// FindByUser returns orders of the user, newest first.
	FindByUser(ctx context.Context, userId string) ([]domain.Order, error)

	// Find orders, newest first.
	Find(ctx context.Context, query domain.OrderFindQuery) ([]domain.Order, error)

	// AttachGatewayOrder records the payment gateway order of the pending order.
	AttachGatewayOrder(ctx context.Context, orderId string, gatewayOrderId string) (domain.Order, error)

	// MarkPaid records the payment of the order, at most once.
	//
	// On the first call for an order, in the same transaction:
	// the pending order is confirmed, stocks are reserved,
	// the ordered products are removed from the cart, coupon usage is counted,
	// and notifications are enqueued.
	//
	// Later calls change nothing and return Transitioned = false.
	MarkPaid(ctx context.Context, gatewayOrderId string, paymentId string, notices Notices) (Settlement, error)

	// ConfirmCashOnDelivery confirms a pending cash-on-delivery order,
	// with the same side effects as MarkPaid.
	//
	// When stock of any ordered product is short, it returns a *domain.LineError
	// wrapping domain.ErrOutOfStock and the order stays pending.
	ConfirmCashOnDelivery(ctx context.Context, orderId string, notices Notices) (Settlement, error)

	// MarkFailed records that payment for the order failed.
	//
	// Paid orders are not changed.
	MarkFailed(ctx context.Context, gatewayOrderId string) (domain.Order, error)

	// SetStatus changes the status of the order.
	//
	// Stocks are restored when a confirmed order is cancelled.
	//
	// # Returns
	//
	// - error: ErrInvalidTransition when the order cannot become the status.
	SetStatus(ctx context.Context, orderId string, next domain.OrderStatus, notices Notices) (domain.Order, error)

	// ExpirePending cancels orders created before olderThan and still waiting for payment.
	//
	// # Returns
	//
	// - []string: ids of cancelled orders.
	ExpirePending(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
}
