package executor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/adapters/database"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/core/query/executor"
)

func openSQLite(t *testing.T) database.Adapter {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewAdapter(database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { db.Disconnect(ctx) })

	for _, stmt := range []string{
		`CREATE TABLE customer (id INTEGER PRIMARY KEY, name TEXT NOT NULL, logo BLOB)`,
		`INSERT INTO customer VALUES (1, 'Acme', X'89504E47'), (2, 'Globex', NULL)`,
	} {
		_, err := db.Execute(ctx, stmt)
		require.NoError(t, err)
	}
	return db
}

func TestQueryExecutor_Execute(t *testing.T) {
	e := executor.NewQueryExecutor(openSQLite(t))

	rows, err := e.Execute(context.Background(),
		`SELECT c.id AS "c_id", c.name AS "c_name", c.logo AS "c_logo" FROM customer c ORDER BY c.id`)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0]["c_id"])
	assert.Equal(t, "Acme", rows[0]["c_name"])
	assert.Equal(t, "\x89PNG", rows[0]["c_logo"])
	assert.Nil(t, rows[1]["c_logo"])
}

func TestQueryExecutor_ExecuteRaw(t *testing.T) {
	e := executor.NewQueryExecutor(openSQLite(t))

	rows, err := e.ExecuteRaw(context.Background(), `SELECT logo FROM customer WHERE id = 1`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rows[0]["logo"])
}

func TestQueryExecutor_Empty(t *testing.T) {
	e := executor.NewQueryExecutor(openSQLite(t))

	rows, err := e.Execute(context.Background(), `SELECT id FROM customer WHERE id = 42`)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryExecutor_Error(t *testing.T) {
	e := executor.NewQueryExecutor(openSQLite(t))

	query := `SELECT missing FROM customer`
	_, err := e.Execute(context.Background(), query)
	require.Error(t, err)

	var qe *domain.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, query, qe.Query)
	assert.Equal(t, "execute", qe.Operation)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestQueryExecutor_NotConnected(t *testing.T) {
	db, err := database.NewAdapter(database.Config{Provider: "sqlite"})
	require.NoError(t, err)

	_, err = executor.NewQueryExecutor(db).Execute(context.Background(), "SELECT 1")
	assert.True(t, errors.Is(err, database.ErrNotConnected))
}
