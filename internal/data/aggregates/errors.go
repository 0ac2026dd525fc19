package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness conflict that could not be resolved.
	ErrConflict = errors.New("conflict")
	// ErrRetryable indicates a transient failure (serialization, deadlock, timeout).
	ErrRetryable = errors.New("retryable")
)

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// IsUniqueViolation reports whether err came from a unique index or primary
// key collision, on Postgres or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505") ||
		strings.Contains(msg, "unique constraint failed")
}

// MapError classifies infrastructure failures under the sentinels above,
// keeping the original error in the chain.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	wrap := func(kind error) error {
		return errors.Join(kind, opError{op: op, err: err})
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrRetryable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return wrap(ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(ErrRetryable)
	case IsUniqueViolation(err):
		return wrap(ErrConflict)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "40001", "40P01", "55P03":
			return wrap(ErrRetryable) // serialization/deadlock/lock_not_available
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") || strings.Contains(msg, "database is locked") {
		return wrap(ErrRetryable)
	}
	return opError{op: op, err: err}
}

type opError struct {
	op  string
	err error
}

func (e opError) Error() string {
	if e.op == "" {
		return e.err.Error()
	}
	return e.op + ": " + e.err.Error()
}

func (e opError) Unwrap() error { return e.err }
