package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bindroles "github.com/sareeloom/storefront/pkg/api-types-binding/roles"
	apierr "github.com/sareeloom/storefront/pkg/api/types/errors"
	apiroles "github.com/sareeloom/storefront/pkg/api/types/roles"
	"github.com/sareeloom/storefront/pkg/domain"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
	"github.com/sareeloom/storefront/pkg/utils"
)

func ListRolesHandler(dbrole roledb.RoleInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		bindings, err := dbrole.List(c.Request().Context())
		if err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, utils.Map(bindings, bindroles.ComposeBinding))
	}
}

// GrantRoleHandler grants the role in the request body to the user.
func GrantRoleHandler(dbrole roledb.RoleInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiroles.Grant)
		if err := bindJSON(c, req); err != nil {
			return err
		}
		role, err := domain.AsRole(req.Role)
		if err != nil {
			return apierr.BadRequest("role should be admin or staff", err)
		}
		userId := c.Param(userIdParam)
		if err := dbrole.Grant(c.Request().Context(), userId, role); err != nil {
			return apierr.FromDomain(err)
		}
		return c.JSON(http.StatusOK, apiroles.Binding{UserId: userId, Role: role.String()})
	}
}

// RevokeRoleHandler revokes the role given by query parameter "role" from the user.
//
// Admins cannot revoke their own admin role.
func RevokeRoleHandler(dbrole roledb.RoleInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := domain.AsRole(c.QueryParam("role"))
		if err != nil {
			return apierr.BadRequest("query parameter role should be admin or staff", err)
		}
		userId := c.Param(userIdParam)
		if me, err := userOf(c); err == nil && me.Id == userId && role == domain.Admin {
			return apierr.Conflict(
				"you cannot revoke your own admin role",
				apierr.WithAdvice("ask another admin"),
			)
		}
		if err := dbrole.Revoke(c.Request().Context(), userId, role); err != nil {
			return apierr.FromDomain(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
