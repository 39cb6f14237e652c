package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	configs "github.com/sareeloom/storefront/pkg/configs/storefront"
	storefrontdb "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	pgstorefront "github.com/sareeloom/storefront/pkg/domain/storefront/db/postgres"
	"github.com/youta-t/flarc"
)

type CommonFlags struct {
	Config string `flag:"config" help:"path to the storefront config file"`
}

// DefaultCommonFlags reads defaults from environment variables.
func DefaultCommonFlags() CommonFlags {
	return CommonFlags{Config: os.Getenv("STOREFRONT_CONFIG")}
}

// Task is a subcommand working on the storefront database.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	db storefrontdb.Database,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}
		if commonFlag.Config == "" {
			return fmt.Errorf("%w: --config (or STOREFRONT_CONFIG) is required", flarc.ErrUsage)
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		conf, err := configs.LoadStorefrontConfig(commonFlag.Config)
		if err != nil {
			return fmt.Errorf("%w: failed to load config (%s)", err, commonFlag.Config)
		}
		db, err := pgstorefront.New(ctx, conf.Database().URI())
		if err != nil {
			return fmt.Errorf("%w: failed to connect the database", err)
		}
		defer db.Close()

		return task(ctx, logger, db, cl, newpos)
	}
}
