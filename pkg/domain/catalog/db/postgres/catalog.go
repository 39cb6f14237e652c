package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	shared "github.com/sareeloom/storefront/pkg/domain/internal/db/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

const (
	DefaultLimit = 48
	MaxLimit     = 200
)

// price customers pay for a piece.
const effectivePrice = `least(coalesce("product"."sale_price", "product"."price"), "product"."price")`

type pgCatalog struct {
	pool pool.Pool
}

func New(p pool.Pool) catalogdb.CatalogInterface {
	return &pgCatalog{pool: p}
}

// where-clause builder with positional parameters.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, args ...any) {
	for _, a := range args {
		c.args = append(c.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(c.args)), 1)
	}
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " where " + strings.Join(c.clauses, " and ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (c *pgCatalog) Find(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	cond := &conditions{}
	if !query.IncludeInactive {
		cond.add(`"product"."active"`)
	}
	if query.CategorySlug != "" {
		cond.add(`"category"."slug" = ?`, query.CategorySlug)
	}
	if query.Fabric != "" {
		cond.add(`lower("product"."fabric") = lower(?)`, query.Fabric)
	}
	if query.Color != "" {
		cond.add(`lower("product"."color") = lower(?)`, query.Color)
	}
	if query.MinPrice != nil {
		cond.add(effectivePrice+` >= ?`, int64(*query.MinPrice))
	}
	if query.MaxPrice != nil {
		cond.add(effectivePrice+` <= ?`, int64(*query.MaxPrice))
	}
	if kw := strings.TrimSpace(query.Keyword); kw != "" {
		cond.add(
			`("product"."name" ilike ? or "product"."description" ilike ?)`,
			likePattern(kw), likePattern(kw),
		)
	}

	order := `"product"."created_at" desc, "product"."id"`
	switch query.Sort {
	case domain.SortPriceAsc:
		order = effectivePrice + ` asc, "product"."id"`
	case domain.SortPriceDesc:
		order = effectivePrice + ` desc, "product"."id"`
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if MaxLimit < limit {
		limit = MaxLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	sql := fmt.Sprintf(
		`
		select %s
		from "product"
		left join "category" on "category"."id" = "product"."category_id"
		%s
		order by %s
		limit %d offset %d
		`,
		qualifiedProductColumns, cond.where(), order, limit, offset,
	)

	rows, err := c.pool.Query(ctx, sql, cond.args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return shared.CollectProducts(rows)
}

const qualifiedProductColumns = `
	"product"."id"::text, "product"."slug", "product"."name", "product"."description",
	"product"."category_id"::text, "product"."fabric", "product"."color",
	"product"."price", "product"."sale_price", "product"."stock", "product"."images",
	"product"."active", "product"."created_at", "product"."updated_at"`

func (c *pgCatalog) Get(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	return shared.GetProducts(ctx, c.pool, ids, false)
}

func (c *pgCatalog) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	p, err := shared.ScanProduct(c.pool.QueryRow(
		ctx,
		`select `+shared.ProductColumns+` from "product" where "slug" = $1`,
		slug,
	))
	if err != nil {
		return domain.Product{}, xe.Wrap(dberr.Classify(err, "product", slug))
	}
	return p, nil
}

func salePriceArg(sp *domain.Amount) *int64 {
	if sp == nil {
		return nil
	}
	v := int64(*sp)
	return &v
}

func (c *pgCatalog) Create(ctx context.Context, spec domain.ProductSpec) (domain.Product, error) {
	p, err := shared.ScanProduct(c.pool.QueryRow(
		ctx,
		`
		insert into "product" (
			"slug", "name", "description", "category_id", "fabric", "color",
			"price", "sale_price", "stock", "active"
		)
		values ($1, $2, $3, $4::uuid, $5, $6, $7, $8, $9, $10)
		returning `+shared.ProductColumns,
		spec.Slug, spec.Name, spec.Description, spec.CategoryId, spec.Fabric, spec.Color,
		int64(spec.Price), salePriceArg(spec.SalePrice), spec.Stock, spec.Active,
	))
	if err != nil {
		return domain.Product{}, xe.Wrap(dberr.Classify(err, "product", spec.Slug))
	}
	return p, nil
}

func (c *pgCatalog) Update(ctx context.Context, id string, spec domain.ProductSpec) (domain.Product, error) {
	p, err := shared.ScanProduct(c.pool.QueryRow(
		ctx,
		`
		update "product" set
			"slug" = $2, "name" = $3, "description" = $4, "category_id" = $5::uuid,
			"fabric" = $6, "color" = $7, "price" = $8, "sale_price" = $9,
			"stock" = $10, "active" = $11, "updated_at" = now()
		where "id" = $1::uuid
		returning `+shared.ProductColumns,
		id,
		spec.Slug, spec.Name, spec.Description, spec.CategoryId,
		spec.Fabric, spec.Color, int64(spec.Price), salePriceArg(spec.SalePrice),
		spec.Stock, spec.Active,
	))
	if err != nil {
		return domain.Product{}, xe.Wrap(dberr.Classify(err, "product", id))
	}
	return p, nil
}

func (c *pgCatalog) Deactivate(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(
		ctx,
		`update "product" set "active" = false, "updated_at" = now() where "id" = $1::uuid`,
		id,
	)
	if err != nil {
		return xe.Wrap(dberr.Classify(err, "product", id))
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "product", Identity: id})
	}
	return nil
}

func (c *pgCatalog) AddImage(ctx context.Context, id string, url string) (domain.Product, error) {
	p, err := shared.ScanProduct(c.pool.QueryRow(
		ctx,
		`
		update "product" set
			"images" = array_append("images", $2::text), "updated_at" = now()
		where "id" = $1::uuid
		returning `+shared.ProductColumns,
		id, url,
	))
	if err != nil {
		return domain.Product{}, xe.Wrap(dberr.Classify(err, "product", id))
	}
	return p, nil
}

func (c *pgCatalog) RemoveImage(ctx context.Context, id string, url string) (domain.Product, error) {
	p, err := shared.ScanProduct(c.pool.QueryRow(
		ctx,
		`
		update "product" set
			"images" = array_remove("images", $2::text), "updated_at" = now()
		where "id" = $1::uuid and $2::text = any("images")
		returning `+shared.ProductColumns,
		id, url,
	))
	if err != nil {
		return domain.Product{}, xe.Wrap(dberr.Classify(err, "product", fmt.Sprintf("%s (image %s)", id, url)))
	}
	return p, nil
}

func (c *pgCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.pool.Query(ctx, `select "id"::text, "slug", "name" from "category" order by "name", "slug"`)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	cs := []domain.Category{}
	for rows.Next() {
		cat := domain.Category{}
		if err := rows.Scan(&cat.Id, &cat.Slug, &cat.Name); err != nil {
			return nil, xe.Wrap(err)
		}
		cs = append(cs, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return cs, nil
}

func (c *pgCatalog) CreateCategory(ctx context.Context, slug string, name string) (domain.Category, error) {
	cat := domain.Category{}
	if err := c.pool.QueryRow(
		ctx,
		`insert into "category" ("slug", "name") values ($1, $2) returning "id"::text, "slug", "name"`,
		slug, name,
	).Scan(&cat.Id, &cat.Slug, &cat.Name); err != nil {
		return domain.Category{}, xe.Wrap(dberr.Classify(err, "category", slug))
	}
	return cat, nil
}

func (c *pgCatalog) DeleteCategory(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `delete from "category" where "id" = $1::uuid`, id)
	if err != nil {
		return xe.Wrap(dberr.Classify(err, "category", id))
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "category", Identity: id})
	}
	return nil
}

func (c *pgCatalog) ListAddons(ctx context.Context, includeInactive bool) ([]domain.Addon, error) {
	rows, err := c.pool.Query(
		ctx,
		`select "id", "name", "price", "active" from "addon" where "active" or $1 order by "name", "id"`,
		includeInactive,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	as := []domain.Addon{}
	for rows.Next() {
		a := domain.Addon{}
		var price int64
		if err := rows.Scan(&a.Id, &a.Name, &price, &a.Active); err != nil {
			return nil, xe.Wrap(err)
		}
		a.Price = domain.Amount(price)
		as = append(as, a)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return as, nil
}

func (c *pgCatalog) GetAddons(ctx context.Context, ids []string) (map[string]domain.Addon, error) {
	return shared.GetAddons(ctx, c.pool, ids)
}

func (c *pgCatalog) UpsertAddon(ctx context.Context, addon domain.Addon) (domain.Addon, error) {
	ret := domain.Addon{}
	var price int64
	if err := c.pool.QueryRow(
		ctx,
		`
		insert into "addon" ("id", "name", "price", "active") values ($1, $2, $3, $4)
		on conflict ("id") do update
		set "name" = excluded."name", "price" = excluded."price", "active" = excluded."active"
		returning "id", "name", "price", "active"
		`,
		addon.Id, addon.Name, int64(addon.Price), addon.Active,
	).Scan(&ret.Id, &ret.Name, &price, &ret.Active); err != nil {
		return domain.Addon{}, xe.Wrap(dberr.Classify(err, "addon", addon.Id))
	}
	ret.Price = domain.Amount(price)
	return ret, nil
}
