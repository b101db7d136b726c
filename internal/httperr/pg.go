package httperr

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgExclusionViolation = "23P01"

// IsExclusionConflict reports whether Postgres rejected a row because of the
// appointments no-overlap exclusion constraint.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsConnectionError reports failures reaching the database at all, as opposed
// to errors returned by a statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	return pgconn.Timeout(err)
}

// FromStorage maps a gorm / pgx error onto a BusinessError. Business errors
// pass through untouched; errors it does not recognise are returned as is.
// An empty notFoundCode leaves gorm.ErrRecordNotFound unmapped.
func FromStorage(err error, notFoundCode, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsBusiness(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFoundCode != "":
		return ErrNotFound(notFoundCode, notFoundMsg)
	case IsExclusionConflict(err):
		return ErrConflict(CodeScheduleConflict, MsgScheduleConflict)
	case IsConnectionError(err), errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable(err)
	}
	return err
}
