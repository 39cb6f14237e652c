package razorpay

import (
	"context"
	"fmt"

	rzp "github.com/razorpay/razorpay-go"
	"github.com/sareeloom/storefront/pkg/domain"
	xe "github.com/sareeloom/storefront/pkg/errors"
	"github.com/sareeloom/storefront/pkg/payment"
)

// OrderCreator is the part of razorpay order API used here.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type gateway struct {
	keyId  string
	orders OrderCreator
}

// New returns a Gateway backed by Razorpay.
func New(keyId, keySecret string) payment.Gateway {
	client := rzp.NewClient(keyId, keySecret)
	return &gateway{keyId: keyId, orders: client.Order}
}

// WithOrderCreator returns a Gateway creating orders with oc.
func WithOrderCreator(keyId string, oc OrderCreator) payment.Gateway {
	return &gateway{keyId: keyId, orders: oc}
}

func (g *gateway) KeyId() string {
	return g.keyId
}

func (g *gateway) CreateOrder(ctx context.Context, receipt string, amount domain.Amount, currency string) (payment.Order, error) {
	if amount <= 0 {
		return payment.Order{}, xe.Wrap(fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount))
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := g.orders.Create(map[string]interface{}{
			"amount":   amount.Paise(),
			"currency": currency,
			"receipt":  receipt,
		}, nil)
		done <- result{body: body, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return payment.Order{}, xe.Wrap(ctx.Err())
	case r = <-done:
	}
	if r.err != nil {
		return payment.Order{}, xe.WrapWithNote("razorpay: cannot create order", r.err)
	}

	id, _ := r.body["id"].(string)
	if id == "" {
		return payment.Order{}, xe.New("razorpay: order id is missing in response")
	}
	o := payment.Order{Id: id, Amount: amount, Currency: currency, Receipt: receipt}
	// numbers in JSON are decoded as float64.
	if a, ok := r.body["amount"].(float64); ok {
		o.Amount = domain.Amount(int64(a))
	}
	if c, ok := r.body["currency"].(string); ok && c != "" {
		o.Currency = c
	}
	return o, nil
}
