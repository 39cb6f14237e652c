package list

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/common"
	bindroles "github.com/sareeloom/storefront/pkg/api-types-binding/roles"
	storefrontdb "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	"github.com/sareeloom/storefront/pkg/utils"
	"github.com/youta-t/flarc"
)

type Flag struct{}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"list users having back-office roles",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
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
		bindings, err := db.Role().List(ctx)
		if err != nil {
			return err
		}

		j := json.NewEncoder(cl.Stdout())
		j.SetIndent("", "    ")
		return j.Encode(utils.Map(bindings, bindroles.ComposeBinding))
	}
}
