package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgReview struct {
	pool pool.Pool
}

func New(p pool.Pool) reviewdb.ReviewInterface {
	return &pgReview{pool: p}
}

const reviewColumns = `
	"id"::text, "product_id"::text, "user_id", "author_name",
	"rating", "comment", "approved", "created_at"
`

func scanReview(row pgx.Row) (domain.Review, error) {
	r := domain.Review{}
	var createdAt time.Time
	if err := row.Scan(
		&r.Id, &r.ProductId, &r.UserId, &r.AuthorName,
		&r.Rating, &r.Comment, &r.Approved, &createdAt,
	); err != nil {
		return domain.Review{}, err
	}
	r.CreatedAt = createdAt.UTC()
	return r, nil
}

func collect(rows pgx.Rows) ([]domain.Review, error) {
	defer rows.Close()
	ret := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		ret = append(ret, r)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return ret, nil
}

func (r *pgReview) Create(ctx context.Context, spec domain.ReviewSpec) (domain.Review, error) {
	review, err := scanReview(r.pool.QueryRow(
		ctx,
		`
		insert into "review" ("product_id", "user_id", "author_name", "rating", "comment")
		values ($1::uuid, $2, $3, $4, $5)
		returning `+reviewColumns,
		spec.ProductId, spec.UserId, spec.AuthorName, spec.Rating, spec.Comment,
	))
	if err != nil {
		return domain.Review{}, xe.Wrap(dberr.Classify(err, "review", spec.ProductId+"/"+spec.UserId))
	}
	return review, nil
}

func (r *pgReview) ListApproved(ctx context.Context, productId string) ([]domain.Review, error) {
	rows, err := r.pool.Query(
		ctx,
		`
		select `+reviewColumns+` from "review"
		where "product_id"::text = $1 and "approved"
		order by "created_at" desc, "id"
		`,
		productId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return collect(rows)
}

func (r *pgReview) Summary(ctx context.Context, productId string) (domain.ReviewSummary, error) {
	s := domain.ReviewSummary{}
	if err := r.pool.QueryRow(
		ctx,
		`
		select count(*), coalesce(avg("rating"), 0)::float8
		from "review" where "product_id"::text = $1 and "approved"
		`,
		productId,
	).Scan(&s.Count, &s.Average); err != nil {
		return domain.ReviewSummary{}, xe.Wrap(err)
	}
	return s, nil
}

func (r *pgReview) ListForModeration(ctx context.Context, approved bool) ([]domain.Review, error) {
	rows, err := r.pool.Query(
		ctx,
		`
		select `+reviewColumns+` from "review"
		where "approved" = $1
		order by "created_at", "id"
		`,
		approved,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return collect(rows)
}

func (r *pgReview) SetApproval(ctx context.Context, reviewId string, approved bool) (domain.Review, error) {
	review, err := scanReview(r.pool.QueryRow(
		ctx,
		`
		update "review" set "approved" = $2
		where "id"::text = $1
		returning `+reviewColumns,
		reviewId, approved,
	))
	if err != nil {
		return domain.Review{}, xe.Wrap(dberr.Classify(err, "review", reviewId))
	}
	return review, nil
}

func (r *pgReview) Delete(ctx context.Context, reviewId string) error {
	tag, err := r.pool.Exec(ctx, `delete from "review" where "id"::text = $1`, reviewId)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "review", Identity: reviewId})
	}
	return nil
}
