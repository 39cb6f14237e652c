// Package testenv provides postgres databases for tests.
//
// Databases are run in containers by testcontainers.
// Tests using this are skipped when no container provider is available.
package testenv

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	pgschema "github.com/sareeloom/storefront/pkg/domain/schema/db/postgres"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PoolBroker hands pools to a database.
type PoolBroker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) pool.Pool

	// URI is the connection string of the database.
	URI() string
}

type pgConnOptions struct {
	Image    string
	User     string
	Password string
	Dbname   string
	NoSchema bool
}

type PgConnOption func(*pgConnOptions) *pgConnOptions

func WithImage(image string) PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.Image = image
		return o
	}
}

// WithoutSchema leaves the database empty.
func WithoutSchema() PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.NoSchema = true
		return o
	}
}

// SchemaRepository is the path to the schema repository of this module.
func SchemaRepository() string {
	_, file, _, _ := runtime.Caller(0)
	// pkg/conn/db/postgres/testenv -> module root
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "..", "schema", "postgres")
}

// NewPoolBroker starts a postgres and returns a PoolBroker for it.
//
// The database lives while t is running.
// Unless WithoutSchema is passed, the latest schema is applied.
func NewPoolBroker(ctx context.Context, t *testing.T, options ...PgConnOption) PoolBroker {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	opts := &pgConnOptions{
		Image:    "postgres:16-alpine",
		User:     "test-user",
		Password: "test-pass",
		Dbname:   "storefront",
	}
	for _, o := range options {
		opts = o(opts)
	}

	req := testcontainers.ContainerRequest{
		Image: opts.Image,
		Env: map[string]string{
			"POSTGRES_USER":     opts.User,
			"POSTGRES_PASSWORD": opts.Password,
			"POSTGRES_DB":       opts.Dbname,
		},
		ExposedPorts: []string{"5432/tcp"},
		// postgres image restarts once after initdb.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres: %v", err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}

	uri := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		opts.User, opts.Password, host, port.Port(), opts.Dbname,
	)
	p, err := pool.Open(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)

	if !opts.NoSchema {
		if err := pgschema.New(p, SchemaRepository()).Upgrade(ctx); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}

	return &pg{pool: p, uri: uri, clean: !opts.NoSchema}
}

type pg struct {
	pool  pool.Pool
	uri   string
	clean bool
}

func (p *pg) URI() string {
	return p.uri
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) pool.Pool {
	t.Helper()
	if !p.clean {
		return p.pool
	}

	t.Cleanup(func() {
		ClearTables(context.Background(), t, p.pool)
	})
	ClearTables(ctx, t, p.pool)
	return p.pool
}

// ClearTables removes all rows except schema version.
func ClearTables(ctx context.Context, t *testing.T, q pool.Queryer) {
	t.Helper()
	if _, err := q.Exec(
		ctx,
		`truncate
			"category", "product", "addon", "cart_item", "coupon",
			"order", "order_item", "review", "user_role", "content_block",
			"notification"
		restart identity cascade`,
	); err != nil {
		t.Errorf("failed to clean up tables: %v", err)
	}
}
