// Package payment talks to the payment gateway.
//
// A checkout creates a gateway order for the amount to be paid. The customer pays it
// in the gateway's widget, which gives back a payment id and its signature.
// The gateway also notifies payment results by webhook.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sareeloom/storefront/pkg/domain"
)

// Order is an order in the payment gateway.
type Order struct {
	Id       string
	Amount   domain.Amount
	Currency string
	Receipt  string
}

type Gateway interface {
	// CreateOrder creates a gateway order to collect the amount.
	//
	// # Args
	//
	// - receipt: our reference of the order. The order number is used.
	//
	// - amount: amount to be paid, in minor units.
	//
	// - currency: ISO currency code, like "INR".
	CreateOrder(ctx context.Context, receipt string, amount domain.Amount, currency string) (Order, error)

	// KeyId is the public key for the checkout widget.
	KeyId() string
}

func sign(secret string, message []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return mac.Sum(nil)
}

func verify(secret string, message []byte, signature string) error {
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", domain.ErrSignatureMismatch)
	}
	if !hmac.Equal(sign(secret, message), given) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// SignPayment returns the signature which the gateway gives for the payment.
func SignPayment(keySecret, gatewayOrderId, paymentId string) string {
	return hex.EncodeToString(sign(keySecret, []byte(gatewayOrderId+"|"+paymentId)))
}

// VerifyPaymentSignature checks the signature is
// hex(HMAC-SHA256(gatewayOrderId + "|" + paymentId, keySecret)).
//
// # Returns
//
// - error: domain.ErrSignatureMismatch when it is not.
func VerifyPaymentSignature(keySecret, gatewayOrderId, paymentId, signature string) error {
	if keySecret == "" {
		return fmt.Errorf("%w: key secret is not configured", domain.ErrSignatureMismatch)
	}
	return verify(keySecret, []byte(gatewayOrderId+"|"+paymentId), signature)
}

// SignWebhook returns the signature which the gateway puts on the webhook body.
func SignWebhook(webhookSecret string, body []byte) string {
	return hex.EncodeToString(sign(webhookSecret, body))
}

// VerifyWebhookSignature checks the signature is hex(HMAC-SHA256(body, webhookSecret)).
//
// # Returns
//
// - error: domain.ErrSignatureMismatch when it is not.
func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) error {
	if webhookSecret == "" {
		return fmt.Errorf("%w: webhook secret is not configured", domain.ErrSignatureMismatch)
	}
	return verify(webhookSecret, body, signature)
}

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the part of webhook payload we use.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	Id      string `json:"id"`
	OrderId string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

func (w WebhookEvent) Payment() PaymentEntity {
	return w.Payload.Payment.Entity
}

func ParseWebhook(body []byte) (WebhookEvent, error) {
	ev := WebhookEvent{}
	if err := json.Unmarshal(body, &ev); err != nil {
		return WebhookEvent{}, err
	}
	return ev, nil
}
