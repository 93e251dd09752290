package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		provider string
		driver   string
		backend  Backend
	}{
		{"firebird", "firebirdsql", Firebird},
		{"postgresql", "postgres", PostgreSQL},
		{"MySQL", "mysql", MySQL},
		{"sqlite3", "sqlite3", SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			a, err := NewAdapter(Config{Provider: tt.provider})
			require.NoError(t, err)
			assert.Equal(t, tt.driver, a.driver.name)
			assert.Equal(t, tt.backend, a.Backend())
		})
	}

	_, err := NewAdapter(Config{Provider: "oracle"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "sysdba:pw@localhost/var/db/shop.fdb",
		firebirdDriver().dsn("firebird://sysdba:pw@localhost/var/db/shop.fdb"))
	assert.Equal(t, "root@tcp(localhost)/shop", mysqlDriver().dsn("root@tcp(localhost)/shop"))
	assert.Equal(t, ":memory:", sqliteDriver().dsn("sqlite://:memory:"))
}

func TestSQLAdapter_NotConnected(t *testing.T) {
	a, err := NewAdapter(Config{Provider: "sqlite"})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = a.Query(ctx, "SELECT 1")
	assert.True(t, errors.Is(err, ErrNotConnected))
	_, err = a.Execute(ctx, "SELECT 1")
	assert.True(t, errors.Is(err, ErrNotConnected))
	_, err = a.Begin(ctx)
	assert.True(t, errors.Is(err, ErrNotConnected))
	assert.True(t, errors.Is(a.Ping(ctx), ErrNotConnected))
	assert.Nil(t, a.QueryRow(ctx, "SELECT 1"))
	assert.NoError(t, a.Disconnect(ctx))
}

func TestSQLAdapter_SQLite(t *testing.T) {
	ctx := context.Background()
	a, err := NewAdapter(Config{Provider: "sqlite", URL: ":memory:", ConnectTimeout: 5})
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx))
	defer a.Disconnect(ctx)

	_, err = a.Execute(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = a.Execute(ctx, "INSERT INTO t (id, name) VALUES (1, 'a')")
	require.NoError(t, err)

	var name string
	require.NoError(t, a.QueryRow(ctx, "SELECT name FROM t WHERE id = 1").Scan(&name))
	assert.Equal(t, "a", name)

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	rows, err := tx.Query(ctx, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	require.True(t, rows.Next())
	var count int
	require.NoError(t, rows.Scan(&count))
	require.NoError(t, rows.Close())
	assert.Equal(t, 1, count)
	require.NoError(t, tx.Rollback())

	assert.NoError(t, a.Ping(ctx))
}
