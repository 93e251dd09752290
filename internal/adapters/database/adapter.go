package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/satishbabariya/gqlsql/internal/debug"
)

// driver describes how one provider opens and prepares a *sql.DB.
type driver struct {
	name    string
	backend Backend
	// dsn converts the configured URL into the driver's data source name.
	dsn func(url string) string
	// pool overrides the pool settings derived from Config.
	pool func(db *sql.DB)
	// init runs once after the first successful ping.
	init func(ctx context.Context, db *sql.DB) error
}

// SQLAdapter implements Adapter on top of database/sql.
type SQLAdapter struct {
	driver driver
	config Config
	db     *sql.DB
}

// NewAdapter creates the adapter for config.Provider. The adapter is not
// connected yet.
func NewAdapter(config Config) (*SQLAdapter, error) {
	var d driver
	switch strings.ToLower(config.Provider) {
	case "firebird", "firebirdsql":
		d = firebirdDriver()
	case "postgres", "postgresql":
		d = postgresDriver()
	case "mysql", "mariadb":
		d = mysqlDriver()
	case "sqlite", "sqlite3":
		d = sqliteDriver()
	default:
		return nil, fmt.Errorf("unsupported database provider: %q", config.Provider)
	}
	return &SQLAdapter{driver: d, config: config}, nil
}

// Connect opens the database and verifies it answers.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	dsn := a.config.URL
	if a.driver.dsn != nil {
		dsn = a.driver.dsn(dsn)
	}
	db, err := sql.Open(a.driver.name, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if a.config.MaxConnections > 0 {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(max(a.config.MaxConnections/2, 1))
	}
	if a.config.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(a.config.MaxIdleTime) * time.Second)
	}
	if a.driver.pool != nil {
		a.driver.pool(db)
	}

	pingCtx := ctx
	if a.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, time.Duration(a.config.ConnectTimeout)*time.Second)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if a.driver.init != nil {
		if err := a.driver.init(ctx, db); err != nil {
			db.Close()
			return err
		}
	}

	debug.Debug("Connected to database", "provider", a.driver.backend, "driver", a.driver.name)
	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute executes a statement without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row. It returns nil when
// the adapter is not connected.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	if a.db == nil {
		return nil
	}
	return a.db.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *SQLAdapter) Begin(ctx context.Context) (Transaction, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTransaction{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// Backend returns the backend the adapter connects to.
func (a *SQLAdapter) Backend() Backend {
	return a.driver.backend
}

type sqlTransaction struct {
	tx *sql.Tx
}

func (t *sqlTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqlTransaction) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTransaction) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

var (
	_ Adapter     = (*SQLAdapter)(nil)
	_ Transaction = (*sqlTransaction)(nil)
)

func trimScheme(url string, schemes ...string) string {
	for _, scheme := range schemes {
		if strings.HasPrefix(url, scheme+"://") {
			return strings.TrimPrefix(url, scheme+"://")
		}
	}
	return url
}
