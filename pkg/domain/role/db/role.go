package db

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
)

type RoleInterface interface {
	// RolesOf returns roles held by the user. Users without roles get an empty slice.
	RolesOf(ctx context.Context, userId string) ([]domain.Role, error)

	// Grant the role to the user. Granting a held role is not an error.
	Grant(ctx context.Context, userId string, role domain.Role) error

	// Revoke the role from the user.
	//
	// # Returns
	//
	// - error: ErrMissing when the user does not hold the role.
	Revoke(ctx context.Context, userId string, role domain.Role) error

	// List all role bindings, ordered by user and role.
	List(ctx context.Context) ([]domain.RoleBinding, error)
}
