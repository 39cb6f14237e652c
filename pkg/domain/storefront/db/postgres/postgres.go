package postgres

import (
	"context"
	"fmt"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	pgcart "github.com/sareeloom/storefront/pkg/domain/cart/db/postgres"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	pgcatalog "github.com/sareeloom/storefront/pkg/domain/catalog/db/postgres"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
	pgcontent "github.com/sareeloom/storefront/pkg/domain/content/db/postgres"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	pgcoupon "github.com/sareeloom/storefront/pkg/domain/coupon/db/postgres"
	notifdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
	pgnotif "github.com/sareeloom/storefront/pkg/domain/notification/db/postgres"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	pgorder "github.com/sareeloom/storefront/pkg/domain/order/db/postgres"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
	pgreview "github.com/sareeloom/storefront/pkg/domain/review/db/postgres"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
	pgrole "github.com/sareeloom/storefront/pkg/domain/role/db/postgres"
	schemadb "github.com/sareeloom/storefront/pkg/domain/schema/db"
	pgschema "github.com/sareeloom/storefront/pkg/domain/schema/db/postgres"
	dbInterface "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	"github.com/sareeloom/storefront/pkg/utils/retry"
)

type storefrontPostgres struct {
	pool         pool.Pool
	catalog      catalogdb.CatalogInterface
	cart         cartdb.CartInterface
	coupon       coupondb.CouponInterface
	order        orderdb.OrderInterface
	review       reviewdb.ReviewInterface
	role         roledb.RoleInterface
	content      contentdb.ContentInterface
	notification notifdb.NotificationInterface
	schema       schemadb.SchemaInterface
}

type Config struct {
	SchemaRepository string
	ConnectBackoff   retry.Backoff
}

type Option func(*Config) *Config

// WithSchemaRepository makes Schema() track the schema repository directory.
//
// Without this, Schema() is a null schema which never upgrades.
func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// WithConnectBackoff makes New wait for the database to come up.
//
// New retries connecting with the backoff until ctx is done.
func WithConnectBackoff(b retry.Backoff) Option {
	return func(c *Config) *Config {
		c.ConnectBackoff = b
		return c
	}
}

func configure(options []Option) Config {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}
	return c
}

// New connects to the database and returns repositories on it.
func New(ctx context.Context, uri string, options ...Option) (dbInterface.Database, error) {
	c := configure(options)
	p, err := pool.Open(ctx, uri)
	if err != nil && c.ConnectBackoff != nil && ctx.Err() == nil {
		p, err = retry.Blocking(ctx, c.ConnectBackoff, func() (pool.Pool, error) {
			p, err := pool.Open(ctx, uri)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
			}
			return p, nil
		})
	}
	if err != nil {
		return nil, err
	}
	return Wrap(p, options...), nil
}

// Wrap builds repositories on an open pool.
func Wrap(p pool.Pool, options ...Option) dbInterface.Database {
	c := configure(options)

	schema := pgschema.Null()
	if c.SchemaRepository != "" {
		schema = pgschema.New(p, c.SchemaRepository)
	}

	return &storefrontPostgres{
		pool:         p,
		catalog:      pgcatalog.New(p),
		cart:         pgcart.New(p),
		coupon:       pgcoupon.New(p),
		order:        pgorder.New(p),
		review:       pgreview.New(p),
		role:         pgrole.New(p),
		content:      pgcontent.New(p),
		notification: pgnotif.New(p),
		schema:       schema,
	}
}

func (s *storefrontPostgres) Catalog() catalogdb.CatalogInterface {
	return s.catalog
}

func (s *storefrontPostgres) Cart() cartdb.CartInterface {
	return s.cart
}

func (s *storefrontPostgres) Coupon() coupondb.CouponInterface {
	return s.coupon
}

func (s *storefrontPostgres) Order() orderdb.OrderInterface {
	return s.order
}

func (s *storefrontPostgres) Review() reviewdb.ReviewInterface {
	return s.review
}

func (s *storefrontPostgres) Role() roledb.RoleInterface {
	return s.role
}

func (s *storefrontPostgres) Content() contentdb.ContentInterface {
	return s.content
}

func (s *storefrontPostgres) Notification() notifdb.NotificationInterface {
	return s.notification
}

func (s *storefrontPostgres) Schema() schemadb.SchemaInterface {
	return s.schema
}

func (s *storefrontPostgres) Close() error {
	s.pool.Close()
	return nil
}
