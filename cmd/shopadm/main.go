package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/sareeloom/storefront/cmd/shopadm/subcommands/common"
	subrole "github.com/sareeloom/storefront/cmd/shopadm/subcommands/role"
	"github.com/sareeloom/storefront/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	role := try.To(subrole.New()).OrFatal(logger)

	shopadm := try.To(
		flarc.NewCommandGroup(
			"Storefront administration tool",
			common.DefaultCommonFlags(),
			flarc.WithSubcommand("role", role),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, shopadm, flarc.WithHelp(true)))
}
