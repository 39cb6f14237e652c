package mocks

import (
	"context"

	"github.com/sareeloom/storefront/pkg/domain"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
)

type RoleBinding struct {
	UserId string
	Role   domain.Role
}

type RoleInterface struct {
	Impl struct {
		RolesOf func(ctx context.Context, userId string) ([]domain.Role, error)
		Grant   func(ctx context.Context, userId string, role domain.Role) error
		Revoke  func(ctx context.Context, userId string, role domain.Role) error
		List    func(ctx context.Context) ([]domain.RoleBinding, error)
	}
	Calls struct {
		RolesOf dbmock.CallLog[string]
		Grant   dbmock.CallLog[RoleBinding]
		Revoke  dbmock.CallLog[RoleBinding]
		List    dbmock.CallLog[struct{}]
	}
}

func NewRoleInterface() *RoleInterface {
	return &RoleInterface{}
}

var _ roledb.RoleInterface = &RoleInterface{}

func (m *RoleInterface) RolesOf(ctx context.Context, userId string) ([]domain.Role, error) {
	m.Calls.RolesOf = append(m.Calls.RolesOf, userId)
	if m.Impl.RolesOf != nil {
		return m.Impl.RolesOf(ctx, userId)
	}
	panic("it should not be called")
}

func (m *RoleInterface) Grant(ctx context.Context, userId string, role domain.Role) error {
	m.Calls.Grant = append(m.Calls.Grant, RoleBinding{UserId: userId, Role: role})
	if m.Impl.Grant != nil {
		return m.Impl.Grant(ctx, userId, role)
	}
	panic("it should not be called")
}

func (m *RoleInterface) Revoke(ctx context.Context, userId string, role domain.Role) error {
	m.Calls.Revoke = append(m.Calls.Revoke, RoleBinding{UserId: userId, Role: role})
	if m.Impl.Revoke != nil {
		return m.Impl.Revoke(ctx, userId, role)
	}
	panic("it should not be called")
}

func (m *RoleInterface) List(ctx context.Context) ([]domain.RoleBinding, error) {
	m.Calls.List = append(m.Calls.List, struct{}{})
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}
	panic("it should not be called")
}
