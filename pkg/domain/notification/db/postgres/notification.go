package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgtype"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	shared "github.com/sareeloom/storefront/pkg/domain/internal/db/postgres"
	notifdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgNotification struct {
	pool pool.Pool
}

func New(p pool.Pool) notifdb.NotificationInterface {
	return &pgNotification{pool: p}
}

func (n *pgNotification) Enqueue(ctx context.Context, specs ...domain.NotificationSpec) ([]string, error) {
	return pool.InTxReturning(ctx, n.pool, func(tx pool.Tx) ([]string, error) {
		return shared.EnqueueNotifications(ctx, tx, specs...)
	})
}

func (n *pgNotification) PickPending(ctx context.Context, limit int, lease time.Duration) ([]domain.Notification, error) {
	if limit <= 0 {
		return []domain.Notification{}, nil
	}

	rows, err := n.pool.Query(
		ctx,
		`
		with "due" as (
			select "id" from "notification"
			where "status" = $1 and "next_attempt_at" <= now()
			order by "next_attempt_at", "created_at"
			limit $2
			for update skip locked
		)
		update "notification" as "n"
		set "next_attempt_at" = now() + $3::bigint * interval '1 millisecond'
		from "due"
		where "n"."id" = "due"."id"
		returning
			"n"."id"::text, "n"."kind", "n"."recipient", "n"."payload",
			"n"."status", "n"."attempts", "n"."next_attempt_at", "n"."created_at"
		`,
		string(domain.NotificationPending), limit, lease.Milliseconds(),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	ret := []domain.Notification{}
	for rows.Next() {
		var nt domain.Notification
		var kind, status string
		var payload pgtype.JSONB
		var nextAttemptAt, createdAt time.Time
		if err := rows.Scan(
			&nt.Id, &kind, &nt.Recipient, &payload,
			&status, &nt.Attempts, &nextAttemptAt, &createdAt,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		nt.Kind = domain.NotificationKind(kind)
		nt.Status = domain.NotificationStatus(status)
		nt.Payload = payload.Bytes
		nt.NextAttemptAt = nextAttemptAt.UTC()
		nt.CreatedAt = createdAt.UTC()
		ret = append(ret, nt)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	// "order by" in the CTE does not order rows returned by "update".
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].CreatedAt.Before(ret[j].CreatedAt) })
	return ret, nil
}

func (n *pgNotification) settle(ctx context.Context, id string, status domain.NotificationStatus, nextAt *time.Time) error {
	tag, err := n.pool.Exec(
		ctx,
		`
		update "notification" set
			"status" = $2,
			"attempts" = "attempts" + 1,
			"next_attempt_at" = coalesce($3::timestamptz, "next_attempt_at")
		where "id"::text = $1 and "status" = $4
		`,
		id, string(status), nextAt, string(domain.NotificationPending),
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "notification", Identity: id})
	}
	return nil
}

func (n *pgNotification) MarkSent(ctx context.Context, id string) error {
	return n.settle(ctx, id, domain.NotificationSent, nil)
}

func (n *pgNotification) MarkRetry(ctx context.Context, id string, nextAt time.Time) error {
	return n.settle(ctx, id, domain.NotificationPending, &nextAt)
}

func (n *pgNotification) MarkFailed(ctx context.Context, id string) error {
	return n.settle(ctx, id, domain.NotificationFailed, nil)
}
