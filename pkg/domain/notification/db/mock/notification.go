package mocks

import (
	"context"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
	notifdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
)

type NotificationInterface struct {
	Impl struct {
		Enqueue     func(ctx context.Context, specs ...domain.NotificationSpec) ([]string, error)
		PickPending func(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error)
		MarkSent    func(ctx context.Context, id string) error
		MarkRetry   func(ctx context.Context, id string, nextAt time.Time) error
		MarkFailed  func(ctx context.Context, id string) error
	}
	Calls struct {
		Enqueue     dbmock.CallLog[[]domain.NotificationSpec]
		PickPending dbmock.CallLog[struct {
			Limit int
			Lease time.Duration
		}]
		MarkSent  dbmock.CallLog[string]
		MarkRetry dbmock.CallLog[struct {
			Id     string
			NextAt time.Time
		}]
		MarkFailed dbmock.CallLog[string]
	}
}

func NewNotificationInterface() *NotificationInterface {
	return &NotificationInterface{}
}

var _ notifdb.NotificationInterface = &NotificationInterface{}

func (m *NotificationInterface) Enqueue(ctx context.Context, specs ...domain.NotificationSpec) ([]string, error) {
	m.Calls.Enqueue = append(m.Calls.Enqueue, specs)
	if m.Impl.Enqueue != nil {
		return m.Impl.Enqueue(ctx, specs...)
	}
	panic("it should not be called")
}

func (m *NotificationInterface) PickPending(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error) {
	m.Calls.PickPending = append(m.Calls.PickPending, struct {
		Limit int
		Lease time.Duration
	}{Limit: limit, Lease: lease})
	if m.Impl.PickPending != nil {
		return m.Impl.PickPending(ctx, limit, lease)
	}
	panic("it should not be called")
}

func (m *NotificationInterface) MarkSent(ctx context.Context, id string) error {
	m.Calls.MarkSent = append(m.Calls.MarkSent, id)
	if m.Impl.MarkSent != nil {
		return m.Impl.MarkSent(ctx, id)
	}
	panic("it should not be called")
}

func (m *NotificationInterface) MarkRetry(ctx context.Context, id string, nextAt time.Time) error {
	m.Calls.MarkRetry = append(m.Calls.MarkRetry, struct {
		Id     string
		NextAt time.Time
	}{Id: id, NextAt: nextAt})
	if m.Impl.MarkRetry != nil {
		return m.Impl.MarkRetry(ctx, id, nextAt)
	}
	panic("it should not be called")
}

func (m *NotificationInterface) MarkFailed(ctx context.Context, id string) error {
	m.Calls.MarkFailed = append(m.Calls.MarkFailed, id)
	if m.Impl.MarkFailed != nil {
		return m.Impl.MarkFailed(ctx, id)
	}
	panic("it should not be called")
}
