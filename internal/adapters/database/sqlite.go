package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteDriver keeps a single connection open: an in-memory database lives
// only as long as its connection.
func sqliteDriver() driver {
	return driver{
		name:    "sqlite3",
		backend: SQLite,
		dsn: func(url string) string {
			return trimScheme(url, "sqlite", "sqlite3")
		},
		pool: func(db *sql.DB) {
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
			db.SetConnMaxIdleTime(0)
		},
		init: func(ctx context.Context, db *sql.DB) error {
			if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
				return fmt.Errorf("failed to enable foreign keys: %w", err)
			}
			return nil
		},
	}
}
