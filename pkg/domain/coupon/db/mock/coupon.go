package mocks

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
)

type CouponInterface struct {
	Impl struct {
		Get    func(ctx context.Context, code string) (domain.Coupon, error)
		List   func(ctx context.Context) ([]domain.Coupon, error)
		Upsert func(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
		Delete func(ctx context.Context, code string) error
	}
	Calls struct {
		Get    dbmock.CallLog[string]
		List   dbmock.CallLog[struct{}]
		Upsert dbmock.CallLog[domain.Coupon]
		Delete dbmock.CallLog[string]
	}
}

func NewCouponInterface() *CouponInterface {
	return &CouponInterface{}
}

var _ coupondb.CouponInterface = &CouponInterface{}

func (m *CouponInterface) Get(ctx context.Context, code string) (domain.Coupon, error) {
	m.Calls.Get = append(m.Calls.Get, code)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, code)
	}
	panic("it should not be called")
}

func (m *CouponInterface) List(ctx context.Context) ([]domain.Coupon, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic("it should not be called")
}

func (m *CouponInterface) Upsert(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	m.Calls.Upsert = append(m.Calls.Upsert, coupon)
	if m.Impl.Upsert != nil {
		return m.Impl.Upsert(ctx, coupon)
	}
	panic("it should not be called")
}

func (m *CouponInterface) Delete(ctx context.Context, code string) error {
	m.Calls.Delete = append(m.Calls.Delete, code)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, code)
	}
	panic("it should not be called")
}
