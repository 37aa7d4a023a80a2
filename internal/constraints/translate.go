// Package constraints maps store-level constraint rejections onto the
// validation failures the request validator would have produced.
package constraints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/validation"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// PostgreSQL SQLSTATE codes
const (
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

// ErrInternal marks store failures that are not constraint violations
var ErrInternal = errors.New("internal store failure")

// Violation is a store rejection mapped to a user-facing failure
type Violation struct {
	Constraint string
	Failure    validation.Failure
	cause      error
}

func (v *Violation) Error() string {
	return v.Failure.Message
}

func (v *Violation) Unwrap() error {
	return v.cause
}

// Translate classifies a store error. nil stays nil, storage.ErrNotFound and
// context errors pass through, recognized constraint violations become
// *Violation and everything else is wrapped in ErrInternal.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return err
	}

	if c, ok := lookup(err); ok {
		return &Violation{Constraint: c.Name, Failure: c.Failure, cause: err}
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func lookup(err error) (validation.StoreConstraint, bool) {
	var memErr *storage.ConstraintError
	if errors.As(err, &memErr) {
		return validation.LookupConstraint(memErr.Constraint)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCheckViolation:
			return validation.LookupConstraint(pgErr.ConstraintName)
		case pgNotNullViolation:
			return notNull(pgErr.TableName, pgErr.ColumnName)
		}
		return validation.StoreConstraint{}, false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintCheck:
			return validation.LookupConstraint(detail(liteErr.Error()))
		case sqlite3.ErrConstraintNotNull:
			table, column, _ := strings.Cut(detail(liteErr.Error()), ".")
			return notNull(table, column)
		}
	}
	return validation.StoreConstraint{}, false
}

// notNull maps a missing required column to the constraint guarding it
func notNull(table, column string) (validation.StoreConstraint, bool) {
	if column == "" {
		return validation.StoreConstraint{}, false
	}
	return validation.LookupColumn(table, column)
}

// detail extracts what follows "constraint failed: " in a SQLite message,
// e.g. the constraint name or "table.column"
func detail(msg string) string {
	_, after, found := strings.Cut(msg, "constraint failed: ")
	if !found {
		return ""
	}
	if i := strings.IndexAny(after, " ,"); i >= 0 {
		after = after[:i]
	}
	return strings.TrimSpace(after)
}
