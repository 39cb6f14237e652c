package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	schemadb "github.com/sareeloom/storefront/pkg/domain/schema/db"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

type pgSchema struct {
	pool       pool.Pool
	repository string
}

// New creates a schema backed by a directory.
//
// # Args
//
// - pool: connection pool to the database.
//
// - repository: path to the schema repository directory.
// It has directories named with version numbers, and each of them has *.sql files.
// SQL files in a version are applied in lexical order.
func New(p pool.Pool, repository string) schemadb.SchemaInterface {
	return &pgSchema{pool: p, repository: repository}
}

type version struct {
	Number int
	Root   string
}

func (v version) apply(ctx context.Context, q pool.Queryer) error {
	return filepath.WalkDir(v.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		query, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(path, err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

func currentVersion(ctx context.Context, q pool.Queryer) (int, error) {
	var v *int
	if err := q.QueryRow(
		ctx, `select max("version") from "schema_version"`,
	).Scan(&v); err != nil {
		if dberr.IsUndefinedTable(err) {
			return 0, nil
		}
		return -1, xe.Wrap(err)
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	versions, err := s.versions()
	if err != nil {
		return err
	}

	return pool.InTx(ctx, s.pool, func(tx pool.Tx) error {
		// serialize concurrent upgraders.
		if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock(hashtext('schema_version'))`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `create table if not exists "schema_version" ("version" int not null)`,
		); err != nil {
			return xe.Wrap(err)
		}

		current, err := currentVersion(ctx, tx)
		if err != nil {
			return err
		}

		for _, v := range versions {
			if v.Number <= current {
				continue
			}
			if err := v.apply(ctx, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
				return xe.Wrap(err)
			}
			if _, err := tx.Exec(
				ctx, `insert into "schema_version" ("version") values ($1)`, v.Number,
			); err != nil {
				return xe.Wrap(err)
			}
		}
		return nil
	})
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		w.Close()
		cancel(err)
		return cctx, func() {}
	}

	check := func() {
		vs, err := s.versions()
		if err != nil {
			cancel(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			cancel(fmt.Errorf("failed to get current schema version: %w", err))
			return
		}
		if len(vs) != 0 && current < vs[len(vs)-1].Number {
			cancel(fmt.Errorf(
				"%w: %d (in database) < %d (in repository)",
				ErrOutdated, current, vs[len(vs)-1].Number,
			))
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Clean(s.repository) != filepath.Dir(ev.Name) {
					continue
				}
				check()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

// ErrOutdated is the cause of contexts from Context when the database is older than the repository.
var ErrOutdated = errors.New("schema is outdated")

// versions lists schema versions in the repository, in ascending order.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	vs := make([]version, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		vs = append(vs, version{Number: n, Root: filepath.Join(s.repository, e.Name())})
	}
	slices.SortFunc(vs, func(a, b version) int { return cmp.Compare(a.Number, b.Number) })
	return vs, nil
}

// Null is a schema without repository.
//
// It cannot be upgraded.
func Null() schemadb.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) error {
	return errors.New("no schema repository available")
}

func (nullSchema) Version(context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
