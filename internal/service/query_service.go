// Package service runs analyzed selections against the database and answers
// GraphQL requests.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/satishbabariya/gqlsql/internal/core/query/alias"
	"github.com/satishbabariya/gqlsql/internal/core/query/compiler"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/core/query/executor"
	"github.com/satishbabariya/gqlsql/internal/core/query/mapper"
	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

// DefaultConcurrency bounds RunAll when no limit is configured.
const DefaultConcurrency = 4

// QueryService compiles, executes and hydrates query trees.
type QueryService struct {
	registry    *schema.MetadataRegistry
	compiler    *compiler.SQLCompiler
	executor    domain.RowExecutor
	hydrator    *mapper.Hydrator
	minify      bool
	concurrency int
}

// Option configures a QueryService.
type Option func(*QueryService)

// WithMinify selects compact aliases.
func WithMinify(minify bool) Option {
	return func(s *QueryService) {
		s.minify = minify
	}
}

// WithConcurrency limits how many trees RunAll executes at once.
func WithConcurrency(n int) Option {
	return func(s *QueryService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewQueryService creates a new query service.
func NewQueryService(registry *schema.MetadataRegistry, comp *compiler.SQLCompiler, exec domain.RowExecutor, opts ...Option) *QueryService {
	s := &QueryService{
		registry:    registry,
		compiler:    comp,
		executor:    exec,
		hydrator:    mapper.NewHydrator(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of one tree.
type Result struct {
	Objects []map[string]interface{}
	Query   *domain.CompiledQuery
	Err     error
}

// Compile compiles tree with a fresh alias namespace.
func (s *QueryService) Compile(ctx context.Context, tree *domain.QueryTree) (*domain.CompiledQuery, error) {
	return s.compiler.Compile(ctx, tree, alias.NewNamespace(s.minify))
}

// Run compiles and executes tree and returns its hydrated objects.
func (s *QueryService) Run(ctx context.Context, tree *domain.QueryTree) ([]map[string]interface{}, error) {
	r := s.run(ctx, tree)
	return r.Objects, r.Err
}

// RunAll runs independent trees concurrently. Results line up with trees; a
// failing tree does not cancel the others.
func (s *QueryService) RunAll(ctx context.Context, trees []*domain.QueryTree) []Result {
	results := make([]Result, len(trees))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, tree := range trees {
		g.Go(func() error {
			results[i] = s.run(ctx, tree)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *QueryService) run(ctx context.Context, tree *domain.QueryTree) Result {
	compiled, err := s.Compile(ctx, tree)
	if err != nil {
		return Result{Err: err}
	}

	id := RequestID(ctx)
	table := tree.Table.OriginalName
	debug.Debug("Running query", "request", id, "table", table, "sql", compiled.SQL)

	start := time.Now()
	rows, err := s.executor.Execute(ctx, compiled.SQL)
	if err != nil {
		var qe *domain.QueryError
		if errors.As(err, &qe) && qe.Table == "" {
			qe.Table = table
		}
		debug.Warn("Query failed", "request", id, "table", table, "error", err)
		return Result{Query: compiled, Err: err}
	}

	objects := s.hydrator.Hydrate(rows, compiled.Shape)
	debug.Debug("Query finished", "request", id, "table", table,
		"rows", len(rows), "objects", len(objects), "elapsed", time.Since(start))
	return Result{Objects: objects, Query: compiled}
}

// FetchBlob reads the content of the cell id names.
func (s *QueryService) FetchBlob(ctx context.Context, id BlobID) ([]byte, error) {
	table, err := s.registry.TableByName(id.Table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobNotFound, err)
	}
	tree, err := compiler.NewLookupTree(table, []string{id.Field}, id.Key)
	if err != nil {
		return nil, err
	}
	compiled, err := s.Compile(ctx, tree)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if raw, ok := s.executor.(executor.RawExecutor); ok {
		rows, err = raw.ExecuteRaw(ctx, compiled.SQL)
	} else {
		rows, err = s.executor.Execute(ctx, compiled.SQL)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrBlobNotFound
	}

	for _, f := range compiled.Shape.Fields {
		if f.Name != id.Field {
			continue
		}
		switch v := rows[0][f.Column].(type) {
		case nil:
			return nil, nil
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		default:
			return []byte(fmt.Sprint(v)), nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnknownColumn, id.Table, id.Field)
}
