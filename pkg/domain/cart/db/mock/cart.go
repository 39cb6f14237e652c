package mocks

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
)

type CartInterface struct {
	Impl struct {
		List   func(ctx context.Context, userId string) ([]domain.CartItem, error)
		Put    func(ctx context.Context, userId string, item domain.CartItem) (domain.CartItem, error)
		Remove func(ctx context.Context, userId string, productId string) error
		Clear  func(ctx context.Context, userId string) error
	}
	Calls struct {
		List dbmock.CallLog[string]
		Put  dbmock.CallLog[struct {
			UserId string
			Item   domain.CartItem
		}]
		Remove dbmock.CallLog[struct {
			UserId    string
			ProductId string
		}]
		Clear dbmock.CallLog[string]
	}
}

func NewCartInterface() *CartInterface {
	return &CartInterface{}
}

var _ cartdb.CartInterface = &CartInterface{}

func (m *CartInterface) List(ctx context.Context, userId string) ([]domain.CartItem, error) {
	m.Calls.List = append(m.Calls.List, userId)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, userId)
	}
	panic("it should not be called")
}

func (m *CartInterface) Put(ctx context.Context, userId string, item domain.CartItem) (domain.CartItem, error) {
	m.Calls.Put = append(m.Calls.Put, struct {
		UserId string
		Item   domain.CartItem
	}{UserId: userId, Item: item})
	if m.Impl.Put != nil {
		return m.Impl.Put(ctx, userId, item)
	}
	panic("it should not be called")
}

func (m *CartInterface) Remove(ctx context.Context, userId string, productId string) error {
	m.Calls.Remove = append(m.Calls.Remove, struct {
		UserId    string
		ProductId string
	}{UserId: userId, ProductId: productId})
	if m.Impl.Remove != nil {
		return m.Impl.Remove(ctx, userId, productId)
	}
	panic("it should not be called")
}

func (m *CartInterface) Clear(ctx context.Context, userId string) error {
	m.Calls.Clear = append(m.Calls.Clear, userId)
	if m.Impl.Clear != nil {
		return m.Impl.Clear(ctx, userId)
	}
	panic("it should not be called")
}
