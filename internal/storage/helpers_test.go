package storage

import (
	"database/sql"
	"time"
)

func sqlNullTime(t time.Time, valid bool) sql.NullTime {
	return sql.NullTime{Time: t, Valid: valid}
}
