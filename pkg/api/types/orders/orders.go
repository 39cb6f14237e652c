// Package orders is JSON representation of orders and checkout.
//
// Amounts are in paise.
package orders

import (
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

type Breakdown struct {
	Subtotal       domain.Amount `json:"subtotal"`
	AddonsTotal    domain.Amount `json:"addonsTotal"`
	Discount       domain.Amount `json:"discount"`
	DeliveryCharge domain.Amount `json:"deliveryCharge"`
	Total          domain.Amount `json:"total"`
}

type Addon struct {
	AddonId string        `json:"addonId"`
	Name    string        `json:"name"`
	Price   domain.Amount `json:"price"`
}

type Item struct {
	ProductId   string        `json:"productId"`
	ProductName string        `json:"productName"`
	Quantity    int           `json:"quantity"`
	UnitPrice   domain.Amount `json:"unitPrice"`
	Addons      []Addon       `json:"addons"`
	LineTotal   domain.Amount `json:"lineTotal"`
}

type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Order struct {
	OrderId       string `json:"orderId"`
	Number        string `json:"number"`
	UserId        string `json:"userId"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`

	Breakdown

	CouponCode       *string `json:"couponCode,omitempty"`
	Shipping         Address `json:"shipping"`
	GatewayOrderId   *string `json:"gatewayOrderId,omitempty"`
	GatewayPaymentId *string `json:"gatewayPaymentId,omitempty"`
	Items            []Item  `json:"items"`

	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

type Line struct {
	ProductId string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	AddonIds  []string `json:"addonIds"`
}

// CheckoutRequest is a request body to place an order.
type CheckoutRequest struct {
	// empty means the whole cart.
	Lines []Line `json:"lines"`

	CouponCode string `json:"couponCode"`

	// "online" (default) or "cod"
	PaymentMethod string  `json:"paymentMethod"`
	Shipping      Address `json:"shipping"`

	// total the customer has been shown.
	Total *domain.Amount `json:"total"`
}

// Placed is the response of a checkout.
//
// For online payment, the client opens the gateway widget with GatewayOrderId and KeyId.
type Placed struct {
	Order          Order  `json:"order"`
	GatewayOrderId string `json:"gatewayOrderId,omitempty"`
	KeyId          string `json:"keyId,omitempty"`
	Currency       string `json:"currency,omitempty"`
}

// Verification is what the gateway widget gives back on payment.
type Verification struct {
	OrderId        string `json:"orderId"`
	GatewayOrderId string `json:"gatewayOrderId"`
	PaymentId      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

type StatusChange struct {
	Status string `json:"status"`
}
