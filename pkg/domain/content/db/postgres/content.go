package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgtype"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgContent struct {
	pool pool.Pool
}

func New(p pool.Pool) contentdb.ContentInterface {
	return &pgContent{pool: p}
}

func (c *pgContent) Get(ctx context.Context, key string) (domain.ContentBlock, error) {
	b := domain.ContentBlock{Key: key}
	var value pgtype.JSONB
	var updatedAt time.Time
	if err := c.pool.QueryRow(
		ctx,
		`select "value", "updated_at" from "content_block" where "key" = $1`,
		key,
	).Scan(&value, &updatedAt); err != nil {
		return domain.ContentBlock{}, xe.Wrap(dberr.Classify(err, "content_block", key))
	}
	b.Value = json.RawMessage(value.Bytes)
	b.UpdatedAt = updatedAt.UTC()
	return b, nil
}

func (c *pgContent) Put(ctx context.Context, key string, value json.RawMessage) (domain.ContentBlock, error) {
	if !json.Valid(value) {
		return domain.ContentBlock{}, xe.New("content value is not a valid JSON")
	}

	b := domain.ContentBlock{Key: key}
	var stored pgtype.JSONB
	var updatedAt time.Time
	if err := c.pool.QueryRow(
		ctx,
		`
		insert into "content_block" ("key", "value") values ($1, $2::jsonb)
		on conflict ("key") do update set "value" = excluded."value", "updated_at" = now()
		returning "value", "updated_at"
		`,
		key, string(value),
	).Scan(&stored, &updatedAt); err != nil {
		return domain.ContentBlock{}, xe.Wrap(err)
	}
	b.Value = json.RawMessage(stored.Bytes)
	b.UpdatedAt = updatedAt.UTC()
	return b, nil
}
