package postgres

import (
	"context"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgRole struct {
	pool pool.Pool
}

func New(p pool.Pool) roledb.RoleInterface {
	return &pgRole{pool: p}
}

func (r *pgRole) RolesOf(ctx context.Context, userId string) ([]domain.Role, error) {
	rows, err := r.pool.Query(
		ctx,
		`select "role" from "user_role" where "user_id" = $1 order by "role"`,
		userId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, xe.Wrap(err)
		}
		roles = append(roles, domain.Role(role))
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return roles, nil
}

func (r *pgRole) Grant(ctx context.Context, userId string, role domain.Role) error {
	if _, err := domain.AsRole(string(role)); err != nil {
		return xe.Wrap(err)
	}
	if _, err := r.pool.Exec(
		ctx,
		`
		insert into "user_role" ("user_id", "role") values ($1, $2)
		on conflict do nothing
		`,
		userId, string(role),
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (r *pgRole) Revoke(ctx context.Context, userId string, role domain.Role) error {
	tag, err := r.pool.Exec(
		ctx,
		`delete from "user_role" where "user_id" = $1 and "role" = $2`,
		userId, string(role),
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(dberr.Missing{Table: "user_role", Identity: userId + ":" + string(role)})
	}
	return nil
}

func (r *pgRole) List(ctx context.Context) ([]domain.RoleBinding, error) {
	rows, err := r.pool.Query(
		ctx,
		`select "user_id", "role" from "user_role" order by "user_id", "role"`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	bindings := []domain.RoleBinding{}
	for rows.Next() {
		var b domain.RoleBinding
		var role string
		if err := rows.Scan(&b.UserId, &role); err != nil {
			return nil, xe.Wrap(err)
		}
		b.Role = domain.Role(role)
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return bindings, nil
}
