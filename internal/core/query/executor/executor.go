// Package executor runs compiled statements against a database adapter.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/gqlsql/internal/adapters/database"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

// RawExecutor is implemented by executors that can return binary columns
// unconverted.
type RawExecutor interface {
	ExecuteRaw(ctx context.Context, query string) ([]map[string]interface{}, error)
}

// QueryExecutor implements domain.RowExecutor over a database adapter.
type QueryExecutor struct {
	db database.Adapter
}

// NewQueryExecutor creates a new query executor.
func NewQueryExecutor(db database.Adapter) *QueryExecutor {
	return &QueryExecutor{db: db}
}

// Execute runs query and returns its rows keyed by column alias. Byte slices
// are converted to strings.
func (e *QueryExecutor) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	return e.run(ctx, query, false)
}

// ExecuteRaw is like Execute but leaves byte slices untouched, for reading
// BLOB content.
func (e *QueryExecutor) ExecuteRaw(ctx context.Context, query string) ([]map[string]interface{}, error) {
	return e.run(ctx, query, true)
}

func (e *QueryExecutor) run(ctx context.Context, query string, raw bool) ([]map[string]interface{}, error) {
	if e.db == nil {
		return nil, domain.NewQueryError("execute", "", query, fmt.Errorf("database adapter not initialized"))
	}

	start := time.Now()
	rows, err := e.db.Query(ctx, query)
	if err != nil {
		return nil, domain.NewQueryError("execute", "", query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, domain.NewQueryError("read columns", "", query, err)
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, domain.NewQueryError("scan row", "", query, err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok && !raw {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewQueryError("iterate rows", "", query, err)
	}

	debug.Debug("Executed query", "rows", len(results), "elapsed", time.Since(start))
	return results, nil
}

var (
	_ domain.RowExecutor = (*QueryExecutor)(nil)
	_ RawExecutor        = (*QueryExecutor)(nil)
)
