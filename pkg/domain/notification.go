package domain

import (
	"encoding/json"
	"time"
)

type NotificationKind string

const (
	// mail to the customer: the order is accepted.
	OrderConfirmation NotificationKind = "order_confirmation"

	// mail to the shop: a new order has come.
	NewOrderAlert NotificationKind = "new_order"

	// mail to the customer: the order is shipped, delivered or cancelled.
	OrderStatusChanged NotificationKind = "order_status_changed"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

type Notification struct {
	Id        string
	Kind      NotificationKind
	Recipient string
	Payload   json.RawMessage

	Status        NotificationStatus
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
}

// NotificationSpec is a notification to be enqueued.
type NotificationSpec struct {
	Kind      NotificationKind
	Recipient string
	Payload   json.RawMessage
}
