package db

import (
	"context"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
)

type NotificationInterface interface {
	// Enqueue notifications to be sent.
	//
	// # Returns
	//
	// - []string: ids of notifications, in the order of specs.
	Enqueue(ctx context.Context, specs ...domain.NotificationSpec) ([]string, error)

	// PickPending claims pending notifications which are due, oldest first.
	//
	// Claimed notifications are not picked again until lease passes,
	// so concurrent dispatchers do not send the same notification at once.
	// Dispatchers should settle each of them by MarkSent, MarkRetry or MarkFailed.
	PickPending(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error)

	// MarkSent records that the notification has been delivered.
	MarkSent(ctx context.Context, id string) error

	// MarkRetry records a failed attempt and schedules the next one.
	MarkRetry(ctx context.Context, id string, nextAt time.Time) error

	// MarkFailed records a failed attempt and gives up the notification.
	MarkFailed(ctx context.Context, id string) error
}
