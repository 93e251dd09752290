// Package servicetest wires the query services over an in-memory SQLite
// database seeded with the customer/orders fixture.
package servicetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/adapters/database"
	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/compiler"
	"github.com/satishbabariya/gqlsql/internal/core/query/dialect"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/core/query/executor"
	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/core/schema/schematest"
	"github.com/satishbabariya/gqlsql/internal/service"
)

// Seed creates and fills the customer and orders tables.
var Seed = []string{
	`CREATE TABLE customer (id INTEGER PRIMARY KEY, name TEXT NOT NULL, logo BLOB)`,
	`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER REFERENCES customer(id),
		total REAL, created TEXT, note TEXT)`,
	`INSERT INTO customer VALUES (1, 'Acme', X'89504E47'), (2, 'Globex', NULL), (3, 'Initech', NULL)`,
	`INSERT INTO orders VALUES
		(10, 1, 12.5, '2024-01-02', 'first'),
		(11, 1, 7.25, '2024-02-03', NULL),
		(12, 3, 3.0, '2024-03-04', 'rush')`,
}

// Fixture holds the wired services.
type Fixture struct {
	Adapter  database.Adapter
	Registry *schema.MetadataRegistry
	Schema   *graph.Schema
	Queries  *service.QueryService
	GraphQL  *service.GraphQLService
}

// Open seeds a fresh database. Wrap, when set, decorates the row executor.
func Open(t *testing.T, wrap func(domain.RowExecutor) domain.RowExecutor) *Fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewAdapter(database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { db.Disconnect(ctx) })
	for _, stmt := range Seed {
		_, err := db.Execute(ctx, stmt)
		require.NoError(t, err)
	}

	registry := schematest.CustomerOrdersRegistry()
	gs, err := graph.Build(registry)
	require.NoError(t, err)

	var exec domain.RowExecutor = executor.NewQueryExecutor(db)
	if wrap != nil {
		exec = wrap(exec)
	}
	queries := service.NewQueryService(registry, compiler.NewSQLCompiler(registry, dialect.SQLite()), exec)
	return &Fixture{
		Adapter:  db,
		Registry: registry,
		Schema:   gs,
		Queries:  queries,
		GraphQL:  service.NewGraphQLService(gs, queries, service.PathBlobLinks("/blobs")),
	}
}
