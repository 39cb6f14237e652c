// Package notify delivers notifications enqueued in the outbox.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
	notificationdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
)

// Sender delivers a notification somewhere.
type Sender interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

const (
	initialBackoff = time.Minute
	maxBackoff     = 24 * time.Hour
)

// Backoff is the delay before the next attempt
// after attempts failed attempts have been made before the last one.
//
// It is 1m × 2^attempts, and at most 24h.
func Backoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	d := initialBackoff
	for i := 0; i < attempts; i++ {
		d *= 2
		if maxBackoff <= d {
			return maxBackoff
		}
	}
	return d
}

type Dispatcher struct {
	outbox      notificationdb.NotificationInterface
	sender      Sender
	maxAttempts int
	lease       time.Duration
	logger      *log.Logger
	now         func() time.Time
}

type Option func(*Dispatcher) *Dispatcher

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.now = now
		return d
	}
}

// WithLease sets how long picked notifications are claimed by a dispatch. Default is 1 minute.
func WithLease(lease time.Duration) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.lease = lease
		return d
	}
}

// NewDispatcher
//
// # Args
//
// - maxAttempts: a notification is given up when this many attempts have failed.
// Less than 1 means 5.
func NewDispatcher(
	outbox notificationdb.NotificationInterface,
	sender Sender,
	maxAttempts int,
	logger *log.Logger,
	options ...Option,
) *Dispatcher {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	d := &Dispatcher{
		outbox:      outbox,
		sender:      sender,
		maxAttempts: maxAttempts,
		lease:       time.Minute,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range options {
		d = opt(d)
	}
	return d
}

// Dispatch delivers at most limit due notifications.
//
// # Returns
//
// - int: the number of notifications picked.
//
// - error: error on the outbox. Delivery errors are recorded on the outbox, not returned.
func (d *Dispatcher) Dispatch(ctx context.Context, limit int) (int, error) {
	picked, err := d.outbox.PickPending(ctx, limit, d.lease)
	if err != nil {
		return 0, err
	}

	for _, n := range picked {
		derr := d.sender.Deliver(ctx, n)
		if derr == nil {
			if err := d.outbox.MarkSent(ctx, n.Id); err != nil {
				return len(picked), err
			}
			continue
		}
		if ctx.Err() != nil {
			// the lease expires and it will be picked again.
			return len(picked), ctx.Err()
		}

		attempts := n.Attempts + 1
		if d.maxAttempts <= attempts {
			d.logger.Printf(
				"notification %s (%s to %s): gave up after %d attempts: %s",
				n.Id, n.Kind, n.Recipient, attempts, derr,
			)
			if err := d.outbox.MarkFailed(ctx, n.Id); err != nil {
				return len(picked), err
			}
			continue
		}

		next := d.now().Add(Backoff(n.Attempts))
		d.logger.Printf(
			"notification %s (%s to %s): attempt #%d failed. retry at %s: %s",
			n.Id, n.Kind, n.Recipient, attempts, next.Format(time.RFC3339), derr,
		)
		if err := d.outbox.MarkRetry(ctx, n.Id, next); err != nil {
			return len(picked), err
		}
	}
	return len(picked), nil
}
