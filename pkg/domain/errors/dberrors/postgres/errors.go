// Package postgres translates postgres errors into domain errors.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/domain"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domain.ErrMissing
}

// data to be written conflicts with what is there.
type Conflict struct {
	Table      string
	Identity   string
	Constraint string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	if c.Constraint == "" {
		return fmt.Sprintf("%s conflicts in %s", c.Identity, c.Table)
	}
	return fmt.Sprintf("%s conflicts in %s (%s)", c.Identity, c.Table, c.Constraint)
}

func (c Conflict) Unwrap() error {
	return domain.ErrConflict
}

// Classify converts err into Missing or Conflict where possible.
//
// - pgx.ErrNoRows, foreign key violations and malformed identifiers become Missing.
//
// - unique violations become Conflict.
//
// Other errors are returned as is.
func Classify(err error, table string, identity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Missing{Table: table, Identity: identity}
	}
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
		switch pgerr.Code {
		case pgerrcode.UniqueViolation:
			return Conflict{Table: table, Identity: identity, Constraint: pgerr.ConstraintName}
		case pgerrcode.ForeignKeyViolation:
			return Missing{Table: pgerr.TableName, Identity: identity}
		case pgerrcode.InvalidTextRepresentation:
			// malformed uuid never identifies anything.
			return Missing{Table: table, Identity: identity}
		}
	}
	return err
}

// IsUndefinedTable tells err is caused by a table which does not exist.
func IsUndefinedTable(err error) bool {
	pgerr := new(pgconn.PgError)
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable
}
