package postgres

import (
	"context"
	"time"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgCart struct {
	pool pool.Pool
}

func New(p pool.Pool) cartdb.CartInterface {
	return &pgCart{pool: p}
}

func (c *pgCart) List(ctx context.Context, userId string) ([]domain.CartItem, error) {
	rows, err := c.pool.Query(
		ctx,
		`
		select "product_id"::text, "quantity", "addon_ids", "added_at"
		from "cart_item" where "user_id" = $1
		order by "added_at", "product_id"
		`,
		userId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		it := domain.CartItem{}
		var addedAt time.Time
		if err := rows.Scan(&it.ProductId, &it.Quantity, &it.AddonIds, &addedAt); err != nil {
			return nil, xe.Wrap(err)
		}
		it.AddedAt = addedAt.UTC()
		if it.AddonIds == nil {
			it.AddonIds = []string{}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return items, nil
}

func (c *pgCart) Put(ctx context.Context, userId string, item domain.CartItem) (domain.CartItem, error) {
	addonIds := item.AddonIds
	if addonIds == nil {
		addonIds = []string{}
	}

	ret := domain.CartItem{}
	var addedAt time.Time
	if err := c.pool.QueryRow(
		ctx,
		`
		insert into "cart_item" ("user_id", "product_id", "quantity", "addon_ids")
		values ($1, $2::uuid, $3, $4::varchar[])
		on conflict ("user_id", "product_id") do update
		set "quantity" = excluded."quantity", "addon_ids" = excluded."addon_ids"
		returning "product_id"::text, "quantity", "addon_ids", "added_at"
		`,
		userId, item.ProductId, item.Quantity, addonIds,
	).Scan(&ret.ProductId, &ret.Quantity, &ret.AddonIds, &addedAt); err != nil {
		return domain.CartItem{}, xe.Wrap(dberr.Classify(err, "product", item.ProductId))
	}
	ret.AddedAt = addedAt.UTC()
	if ret.AddonIds == nil {
		ret.AddonIds = []string{}
	}
	return ret, nil
}

func (c *pgCart) Remove(ctx context.Context, userId string, productId string) error {
	tag, err := c.pool.Exec(
		ctx,
		`delete from "cart_item" where "user_id" = $1 and "product_id"::text = $2`,
		userId, productId,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "cart_item", Identity: productId})
	}
	return nil
}

func (c *pgCart) Clear(ctx context.Context, userId string) error {
	if _, err := c.pool.Exec(ctx, `delete from "cart_item" where "user_id" = $1`, userId); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
