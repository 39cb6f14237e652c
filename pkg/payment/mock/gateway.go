package mock

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/payment"
)

type CreateOrderArgs struct {
	Receipt  string
	Amount   domain.Amount
	Currency string
}

type Gateway struct {
	Key  string
	Impl struct {
		CreateOrder func(ctx context.Context, receipt string, amount domain.Amount, currency string) (payment.Order, error)
	}
	Calls struct {
		CreateOrder []CreateOrderArgs
	}
}

func New(keyId string) *Gateway {
	return &Gateway{Key: keyId}
}

var _ payment.Gateway = &Gateway{}

func (g *Gateway) CreateOrder(ctx context.Context, receipt string, amount domain.Amount, currency string) (payment.Order, error) {
	g.Calls.CreateOrder = append(g.Calls.CreateOrder, CreateOrderArgs{Receipt: receipt, Amount: amount, Currency: currency})
	if g.Impl.CreateOrder != nil {
		return g.Impl.CreateOrder(ctx, receipt, amount, currency)
	}
	panic("it should not be called")
}

func (g *Gateway) KeyId() string {
	return g.Key
}
