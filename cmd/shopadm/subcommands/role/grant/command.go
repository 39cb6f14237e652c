package grant

import (
	"context"
	"fmt"
	"log"

	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/common"
	"github.com/sareeloom/storefront/pkg/domain"
	storefrontdb "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	"github.com/youta-t/flarc"
)

type Flag struct{}

const (
	ARGS_USER_ID = "USER_ID"
	ARGS_ROLE    = "ROLE"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"grant a back-office role to a user",
		Flag{},
		flarc.Args{
			{Name: ARGS_USER_ID, Required: true, Help: "id of the user, as the auth service knows."},
			{Name: ARGS_ROLE, Required: true, Help: "admin or staff"},
		},
		common.NewTask(Task()),
		flarc.WithDescription(`
Grant a back-office role to a user.

Use this to make the first admin. After that, admins can grant roles via the API.
Granting a role the user has already is not an error.
`),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		db storefrontdb.Database,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		userId := cl.Args()[ARGS_USER_ID][0]
		role, err := domain.AsRole(cl.Args()[ARGS_ROLE][0])
		if err != nil {
			return fmt.Errorf("%w: %s", flarc.ErrUsage, err)
		}
		if err := db.Role().Grant(ctx, userId, role); err != nil {
			return err
		}
		logger.Printf("user %s: %s is granted", userId, role)
		return nil
	}
}
