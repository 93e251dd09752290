// Package database opens the backends compiled statements run against.
package database

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotConnected is returned by adapters used before Connect.
var ErrNotConnected = errors.New("database not connected")

// Adapter is a connection pool to one backend. Compiled statements only read,
// through Query; Execute and Begin serve setup and fixtures.
type Adapter interface {
	// Connect opens the pool and verifies it with a ping.
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
	Begin(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error

	// Backend names the SQL flavour of the pool.
	Backend() Backend
}

// Transaction is an open transaction of an Adapter.
type Transaction interface {
	Commit() error
	Rollback() error
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Backend identifies a supported database. Its value matches the name of the
// query dialect that renders statements for it.
type Backend string

const (
	Firebird   Backend = "firebird"
	PostgreSQL Backend = "postgres"
	MySQL      Backend = "mysql"
	SQLite     Backend = "sqlite"
)

// Config holds connection settings. Durations are in seconds; zero keeps the
// driver default.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int
	ConnectTimeout int
}
