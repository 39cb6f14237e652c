// Package postgres has queries shared by repositories.
//
// Functions here take a pool.Queryer, so that they can be run in a transaction
// started by the caller.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

// ProductColumns are columns scanned by ScanProduct, in order.
const ProductColumns = `
	"id"::text, "slug", "name", "description", "category_id"::text,
	"fabric", "color", "price", "sale_price", "stock", "images", "active",
	"created_at", "updated_at"`

// ScanProduct reads a row selected with ProductColumns.
func ScanProduct(row pgx.Row) (domain.Product, error) {
	p := domain.Product{}
	var price int64
	var salePrice *int64
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&p.Id, &p.Slug, &p.Name, &p.Description, &p.CategoryId,
		&p.Fabric, &p.Color, &price, &salePrice, &p.Stock, &p.Images, &p.Active,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	p.Price = domain.Amount(price)
	if salePrice != nil {
		sp := domain.Amount(*salePrice)
		p.SalePrice = &sp
	}
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// CollectProducts scans all rows. rows are closed.
func CollectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	ps := []domain.Product{}
	for rows.Next() {
		p, err := ScanProduct(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return ps, nil
}

// GetProducts returns products by id.
//
// # Args
//
// - ids: product ids. Ids not found are not in the result.
//
// - lock: when true, rows are locked "for update" until the end of the transaction.
func GetProducts(ctx context.Context, q pool.Queryer, ids []string, lock bool) (map[string]domain.Product, error) {
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `select ` + ProductColumns + ` from "product" where "id"::text = any($1::varchar[]) order by "id"`
	if lock {
		query += ` for update`
	}
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ps, err := CollectProducts(rows)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]domain.Product, len(ps))
	for _, p := range ps {
		ret[p.Id] = p
	}
	return ret, nil
}

// GetAddons returns add-ons by id. Ids not found are not in the result.
func GetAddons(ctx context.Context, q pool.Queryer, ids []string) (map[string]domain.Addon, error) {
	ret := map[string]domain.Addon{}
	if len(ids) == 0 {
		return ret, nil
	}

	rows, err := q.Query(
		ctx,
		`select "id", "name", "price", "active" from "addon" where "id" = any($1::varchar[])`,
		ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		a := domain.Addon{}
		var price int64
		if err := rows.Scan(&a.Id, &a.Name, &price, &a.Active); err != nil {
			return nil, xe.Wrap(err)
		}
		a.Price = domain.Amount(price)
		ret[a.Id] = a
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return ret, nil
}
