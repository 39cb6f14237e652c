package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sareeloom/storefront/cmd/loops/recurring"
	configs "github.com/sareeloom/storefront/pkg/configs/storefront"
	"github.com/sareeloom/storefront/pkg/domain"
	pgstorefront "github.com/sareeloom/storefront/pkg/domain/storefront/db/postgres"
	"github.com/sareeloom/storefront/pkg/utils/args"
	"github.com/sareeloom/storefront/pkg/utils/filewatch"
	"github.com/sareeloom/storefront/pkg/utils/retry"
	"github.com/sareeloom/storefront/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("STOREFRONT_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("STOREFRONT_SCHEMA"), "schema repository path",
	)
	loopType := args.Parser(domain.AsLoopType)
	flag.Var(loopType, "type", "one of loop type (notification|housekeeping)")
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: 0) as interval.`+
			` "backlog" = run until error or backlog is over.`,
	)
	flag.Parse()

	if !loopType.IsSet() {
		logger.Fatal("-type is required")
	}
	if !policy.IsSet() {
		logger.Fatal("-policy is required")
	}

	{
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadStorefrontConfig(*pconfig)).OrFatal(logger)
	db := try.To(pgstorefront.New(
		ctx, conf.Database().URI(),
		pgstorefront.WithSchemaRepository(*pSchemaRepo),
		pgstorefront.WithConnectBackoff(retry.StaticBackoff(3*time.Second)),
	)).OrFatal(logger)
	defer db.Close()

	{
		ctx_, ccan := db.Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	logger.Printf(
		`start loop "%s" /w policy "%s"`,
		loopType.Value().String(), policy.Value().String(),
	)

	err := StartLoop(
		ctx, logger, db, conf,
		LoopManifest{
			Type:   loopType.Value(),
			Policy: recurring.UntilError(policy.Value()),
		},
	)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Fatal(err, " (loop context is cancelled by: ", context.Cause(ctx), ")")
	}
	logger.Fatal(err)
}
