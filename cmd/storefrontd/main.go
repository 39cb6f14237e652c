package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sareeloom/storefront/pkg/auth"
	"github.com/sareeloom/storefront/pkg/checkout"
	configs "github.com/sareeloom/storefront/pkg/configs/storefront"
	pgstorefront "github.com/sareeloom/storefront/pkg/domain/storefront/db/postgres"
	"github.com/sareeloom/storefront/pkg/echoutil"
	"github.com/sareeloom/storefront/pkg/payment/razorpay"
	"github.com/sareeloom/storefront/pkg/storage/supabase"
	"github.com/sareeloom/storefront/pkg/utils/filewatch"
	"github.com/sareeloom/storefront/pkg/utils/retry"
	kstrings "github.com/sareeloom/storefront/pkg/utils/strings"
)

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to config file")
	schemaRepo := flag.String(
		"schema-repo", os.Getenv("STOREFRONT_SCHEMA"),
		"schema repository path. When given, the server stops when the repository gains a newer schema.",
	)
	loglevel := flag.String("loglevel", "", "log level. debug|info|warn|error|off. It overrides the config file.")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	conf, err := configs.LoadStorefrontConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	level := conf.Server().LogLevel()
	if *loglevel != "" {
		level = *loglevel
	}
	echoutil.SetLevel(e, level)
	e.HTTPErrorHandler = echoutil.HTTPErrorHandler
	e.Use(echoutil.LogHandlerFunc)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	{
		wctx, wcancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configuration: %s", err)
		}
		defer wcancel()
		ctx = wctx
	}

	db, err := pgstorefront.New(
		ctx, conf.Database().URI(),
		pgstorefront.WithSchemaRepository(*schemaRepo),
		pgstorefront.WithConnectBackoff(retry.StaticBackoff(3*time.Second)),
	)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()
	{
		sctx, scancel := db.Schema().Context(ctx)
		defer scancel()
		ctx = sctx
	}

	context.AfterFunc(ctx, func() {
		log.Printf("shutting down: %s", context.Cause(ctx))
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	})

	images, err := supabase.New(
		conf.Storage().SupabaseURL(), conf.Storage().ServiceKey(), conf.Storage().Bucket(),
	)
	if err != nil {
		log.Fatalf("can not connect to storage: %s", err)
	}

	pay := conf.Payment()
	verifierOptions := []auth.VerifierOption{}
	if iss := conf.Auth().Issuer(); iss != "" {
		verifierOptions = append(verifierOptions, auth.WithIssuer(iss))
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}
	register(e, api, services{
		db:       db,
		verifier: auth.HS256(conf.Auth().JWTSecret(), conf.Auth().Audience(), verifierOptions...),
		checkout: checkout.New(
			db.Catalog(), db.Coupon(), db.Order(),
			razorpay.New(pay.KeyId(), pay.KeySecret()),
			checkout.Config{
				Rules:         conf.Pricing(),
				Currency:      pay.Currency(),
				KeySecret:     pay.KeySecret(),
				WebhookSecret: pay.WebhookSecret(),
				AdminEmail:    conf.Notification().AdminEmail(),
			},
			e.Logger,
		),
		images: images,
	})

	log.Println("registered routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	addr := fmt.Sprintf(":%d", conf.Server().Port())
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(addr, cert, key)
	} else {
		err = e.Start(addr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

// create api URL factory
//
// args:
//   - root: api root
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	//    when r is https://example.org:8080/api/root/path
	origin := "" // https://example.org:8080/ . "/" terminated. if r is path only, this is empty.
	base := ""   // /api/root/path
	{
		b, err := url.Parse(r)
		if err != nil {
			return nil, err
		}
		base = b.Path
		if b.Host != "" || b.Scheme != "" {
			_r := *b
			r := &_r
			r.RawPath = ""
			r.Path = ""
			r.RawQuery = ""
			r.Fragment = ""
			origin = r.String()
		}
	}
	origin = kstrings.SupplySuffix(origin, "/")

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		path := path.Join(parts...)
		path = kstrings.TrimPrefixAll(path, "/")

		return kstrings.SupplySuffix(origin+path, "/")
	}, nil
}
