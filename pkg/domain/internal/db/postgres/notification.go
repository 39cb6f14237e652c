package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

// EnqueueNotifications inserts notifications to be sent.
//
// Notifications are stamped with the wall clock, so ones enqueued in a transaction keep their order.
//
// # Returns
//
// - []string: ids of notifications, in the order of specs.
func EnqueueNotifications(ctx context.Context, q pool.Queryer, specs ...domain.NotificationSpec) ([]string, error) {
	ids := make([]string, 0, len(specs))
	for _, s := range specs {
		id := uuid.NewString()
		payload := s.Payload
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if _, err := q.Exec(
			ctx,
			`
			insert into "notification" (
				"id", "kind", "recipient", "payload", "next_attempt_at", "created_at"
			)
			values ($1::uuid, $2, $3, $4::jsonb, clock_timestamp(), clock_timestamp())
			`,
			id, string(s.Kind), s.Recipient, string(payload),
		); err != nil {
			return nil, xe.Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
