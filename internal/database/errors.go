package database

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// IsUnavailable reports whether err means the database could not be reached,
// as opposed to rejecting a statement. Both supported drivers are recognised.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	// SQLSTATE class 08 is connection exception, 57P0x is operator shutdown
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return unavailableCode(string(pqErr.Code))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return unavailableCode(pgErr.Code)
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

func unavailableCode(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P0")
}
