package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	// order is placed, and waiting for payment.
	Pending OrderStatus = "pending"

	// order is paid (or accepted as cash-on-delivery).
	Confirmed OrderStatus = "confirmed"

	// the shop is preparing the parcel.
	Processing OrderStatus = "processing"

	Shipped   OrderStatus = "shipped"
	Delivered OrderStatus = "delivered"

	// order is cancelled by customer, staff, or expired without payment.
	Cancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func AsOrderStatus(s string) (OrderStatus, error) {
	switch os := OrderStatus(s); os {
	case Pending, Confirmed, Processing, Shipped, Delivered, Cancelled:
		return os, nil
	default:
		return os, fmt.Errorf("unknown order status: %q", s)
	}
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	Pending:    {Confirmed, Cancelled},
	Confirmed:  {Processing, Cancelled},
	Processing: {Shipped, Cancelled},
	Shipped:    {Delivered},
}

// CanBecome tells the order can be changed from s to next.
func (s OrderStatus) CanBecome(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Cancellable tells customers can cancel orders in this status by themselves.
func (s OrderStatus) Cancellable() bool {
	return s == Pending || s == Confirmed
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"

	// to be paid on delivery.
	PaymentCOD PaymentStatus = "cod"
)

type PaymentMethod string

const (
	Online         PaymentMethod = "online"
	CashOnDelivery PaymentMethod = "cod"
)

func AsPaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(s); pm {
	case "":
		return Online, nil
	case Online, CashOnDelivery:
		return pm, nil
	default:
		return pm, fmt.Errorf("unknown payment method: %q", s)
	}
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a ShippingAddress) Validate() error {
	missing := []string{}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", a.Name}, {"phone", a.Phone}, {"line1", a.Line1},
		{"city", a.City}, {"state", a.State}, {"postal_code", a.PostalCode},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	return nil
}

// Breakdown is how a total is made.
//
//	Total = Subtotal + AddonsTotal - Discount + DeliveryCharge
type Breakdown struct {
	Subtotal       Amount
	AddonsTotal    Amount
	Discount       Amount
	DeliveryCharge Amount
	Total          Amount
}

// Merchandise is the amount of goods and services, before discount and delivery.
func (b Breakdown) Merchandise() Amount {
	return b.Subtotal + b.AddonsTotal
}

// AddonSnapshot is an add-on at the time the order is placed.
type AddonSnapshot struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Price Amount `json:"price"`
}

type OrderItem struct {
	ProductId   string
	ProductName string
	Quantity    int

	// unit price at the time of the order (or of the last recalculation).
	UnitPrice Amount

	Addons []AddonSnapshot
}

func (oi OrderItem) AddonUnitPrice() Amount {
	var sum Amount
	for _, a := range oi.Addons {
		sum += a.Price
	}
	return sum
}

func (oi OrderItem) LineTotal() Amount {
	return (oi.UnitPrice + oi.AddonUnitPrice()).Times(oi.Quantity)
}

type Order struct {
	Id     string
	Number string
	UserId string
	Email  string

	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod

	Breakdown

	// applied coupon. nil if no coupons are applied.
	CouponCode *string

	Shipping ShippingAddress

	// order id issued by the payment gateway.
	GatewayOrderId *string

	// payment id issued by the payment gateway, once it is paid.
	GatewayPaymentId *string

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderSpec is an order to be placed.
type OrderSpec struct {
	Number        string
	UserId        string
	Email         string
	PaymentMethod PaymentMethod
	CouponCode    *string
	Shipping      ShippingAddress
	Items         []OrderItem

	// tentative breakdown. It is replaced by recalculation.
	Breakdown Breakdown
}

type OrderFindQuery struct {
	// empty means any.
	Status []OrderStatus

	UserId string

	Since *time.Time
	Until *time.Time

	Limit  int
	Offset int
}
