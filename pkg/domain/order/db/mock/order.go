package mocks

import (
	"context"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
)

type OrderInterface struct {
	Impl struct {
		Create                func(ctx context.Context, spec domain.OrderSpec) (domain.Order, error)
		RecalculateTotal      func(ctx context.Context, orderId string, rules pricing.Rules, now time.Time) (domain.Order, error)
		Get                   func(ctx context.Context, orderId string) (domain.Order, error)
		GetByGatewayOrder     func(ctx context.Context, gatewayOrderId string) (domain.Order, error)
		FindByUser            func(ctx context.Context, userId string) ([]domain.Order, error)
		Find                  func(ctx context.Context, query domain.OrderFindQuery) ([]domain.Order, error)
		AttachGatewayOrder    func(ctx context.Context, orderId string, gatewayOrderId string) (domain.Order, error)
		MarkPaid              func(ctx context.Context, gatewayOrderId string, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error)
		ConfirmCashOnDelivery func(ctx context.Context, orderId string, notices orderdb.Notices) (orderdb.Settlement, error)
		MarkFailed            func(ctx context.Context, gatewayOrderId string) (domain.Order, error)
		SetStatus             func(ctx context.Context, orderId string, next domain.OrderStatus, notices orderdb.Notices) (domain.Order, error)
		ExpirePending         func(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
	}
	Calls struct {
		Create           dbmock.CallLog[domain.OrderSpec]
		RecalculateTotal dbmock.CallLog[struct {
			OrderId string
			Rules   pricing.Rules
			Now     time.Time
		}]
		Get                dbmock.CallLog[string]
		GetByGatewayOrder  dbmock.CallLog[string]
		FindByUser         dbmock.CallLog[string]
		Find               dbmock.CallLog[domain.OrderFindQuery]
		AttachGatewayOrder dbmock.CallLog[struct {
			OrderId        string
			GatewayOrderId string
		}]
		MarkPaid dbmock.CallLog[struct {
			GatewayOrderId string
			PaymentId      string
			Notices        orderdb.Notices
		}]
		ConfirmCashOnDelivery dbmock.CallLog[struct {
			OrderId string
			Notices orderdb.Notices
		}]
		MarkFailed dbmock.CallLog[string]
		SetStatus  dbmock.CallLog[struct {
			OrderId string
			Next    domain.OrderStatus
			Notices orderdb.Notices
		}]
		ExpirePending dbmock.CallLog[struct {
			OlderThan time.Time
			Limit     int
		}]
	}
}

func NewOrderInterface() *OrderInterface {
	return &OrderInterface{}
}

var _ orderdb.OrderInterface = &OrderInterface{}

func (m *OrderInterface) Create(ctx context.Context, spec domain.OrderSpec) (domain.Order, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic("it should not be called")
}

func (m *OrderInterface) RecalculateTotal(ctx context.Context, orderId string, rules pricing.Rules, now time.Time) (domain.Order, error) {
	m.Calls.RecalculateTotal = append(m.Calls.RecalculateTotal, struct {
		OrderId string
		Rules   pricing.Rules
		Now     time.Time
	}{OrderId: orderId, Rules: rules, Now: now})
	if m.Impl.RecalculateTotal != nil {
		return m.Impl.RecalculateTotal(ctx, orderId, rules, now)
	}
	panic("it should not be called")
}

func (m *OrderInterface) Get(ctx context.Context, orderId string) (domain.Order, error) {
	m.Calls.Get = append(m.Calls.Get, orderId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, orderId)
	}
	panic("it should not be called")
}

func (m *OrderInterface) GetByGatewayOrder(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
	m.Calls.GetByGatewayOrder = append(m.Calls.GetByGatewayOrder, gatewayOrderId)
	if m.Impl.GetByGatewayOrder != nil {
		return m.Impl.GetByGatewayOrder(ctx, gatewayOrderId)
	}
	panic("it should not be called")
}

func (m *OrderInterface) FindByUser(ctx context.Context, userId string) ([]domain.Order, error) {
	m.Calls.FindByUser = append(m.Calls.FindByUser, userId)
	if m.Impl.FindByUser != nil {
		return m.Impl.FindByUser(ctx, userId)
	}
	panic("it should not be called")
}

func (m *OrderInterface) Find(ctx context.Context, query domain.OrderFindQuery) ([]domain.Order, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic("it should not be called")
}

func (m *OrderInterface) AttachGatewayOrder(ctx context.Context, orderId string, gatewayOrderId string) (domain.Order, error) {
	m.Calls.AttachGatewayOrder = append(m.Calls.AttachGatewayOrder, struct {
		OrderId        string
		GatewayOrderId string
	}{OrderId: orderId, GatewayOrderId: gatewayOrderId})
	if m.Impl.AttachGatewayOrder != nil {
		return m.Impl.AttachGatewayOrder(ctx, orderId, gatewayOrderId)
	}
	panic("it should not be called")
}

func (m *OrderInterface) MarkPaid(ctx context.Context, gatewayOrderId string, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
	m.Calls.MarkPaid = append(m.Calls.MarkPaid, struct {
		GatewayOrderId string
		PaymentId      string
		Notices        orderdb.Notices
	}{GatewayOrderId: gatewayOrderId, PaymentId: paymentId, Notices: notices})
	if m.Impl.MarkPaid != nil {
		return m.Impl.MarkPaid(ctx, gatewayOrderId, paymentId, notices)
	}
	panic("it should not be called")
}

func (m *OrderInterface) ConfirmCashOnDelivery(ctx context.Context, orderId string, notices orderdb.Notices) (orderdb.Settlement, error) {
	m.Calls.ConfirmCashOnDelivery = append(m.Calls.ConfirmCashOnDelivery, struct {
		OrderId string
		Notices orderdb.Notices
	}{OrderId: orderId, Notices: notices})
	if m.Impl.ConfirmCashOnDelivery != nil {
		return m.Impl.ConfirmCashOnDelivery(ctx, orderId, notices)
	}
	panic("it should not be called")
}

func (m *OrderInterface) MarkFailed(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
	m.Calls.MarkFailed = append(m.Calls.MarkFailed, gatewayOrderId)
	if m.Impl.MarkFailed != nil {
		return m.Impl.MarkFailed(ctx, gatewayOrderId)
	}
	panic("it should not be called")
}

func (m *OrderInterface) SetStatus(ctx context.Context, orderId string, next domain.OrderStatus, notices orderdb.Notices) (domain.Order, error) {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		OrderId string
		Next    domain.OrderStatus
		Notices orderdb.Notices
	}{OrderId: orderId, Next: next, Notices: notices})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, orderId, next, notices)
	}
	panic("it should not be called")
}

func (m *OrderInterface) ExpirePending(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	m.Calls.ExpirePending = append(m.Calls.ExpirePending, struct {
		OlderThan time.Time
		Limit     int
	}{OlderThan: olderThan, Limit: limit})
	if m.Impl.ExpirePending != nil {
		return m.Impl.ExpirePending(ctx, olderThan, limit)
	}
	panic("it should not be called")
}
