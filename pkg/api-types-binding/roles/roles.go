package roles

import (
	apiroles "github.com/sareeloom/storefront/pkg/api/types/roles"
	"github.com/sareeloom/storefront/pkg/domain"
)

func ComposeBinding(b domain.RoleBinding) apiroles.Binding {
	return apiroles.Binding{UserId: b.UserId, Role: b.Role.String()}
}
