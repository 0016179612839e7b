package repositories

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// dateLayout is the on-disk representation of every date column.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
