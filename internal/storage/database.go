package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

func init() {
	// sqlx only knows the cgo driver name; tell it modernc uses ? too.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// ErrDuplicateIdiom is returned when an idiom name is already taken.
var ErrDuplicateIdiom = errors.New("idiom already exists")

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open creates a new database connection and ensures the tables exist.
// Existing tables are used as they are.
func Open(dsn string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer keeps ":memory:" databases on a single connection too.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// isUniqueConstraintErr returns true when the error indicates a unique constraint violation.
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint failed")
}
