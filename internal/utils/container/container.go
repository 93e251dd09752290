// Package container provides dependency injection.
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/satishbabariya/gqlsql/internal/adapters/database"
	"github.com/satishbabariya/gqlsql/internal/adapters/httpapi"
	"github.com/satishbabariya/gqlsql/internal/config"
	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/cache"
	"github.com/satishbabariya/gqlsql/internal/core/query/compiler"
	"github.com/satishbabariya/gqlsql/internal/core/query/dialect"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/core/query/executor"
	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/core/schema/parser"
	"github.com/satishbabariya/gqlsql/internal/service"
)

// ErrNoDatabase is returned by Connect when no database URL is configured.
var ErrNoDatabase = errors.New("database url is not configured")

// Container holds all application dependencies.
type Container struct {
	config *config.Config

	// Adapters
	dbAdapter database.Adapter
	serial    *executor.Serial

	// Core
	registry *schema.MetadataRegistry
	schema   *graph.Schema
	compiler *compiler.SQLCompiler

	// Services
	queryService   *service.QueryService
	graphqlService *service.GraphQLService
}

// NewContainer loads the schema and wires the services. The database adapter
// is created only when a URL is configured and is opened by Connect.
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{config: cfg}

	var err error
	c.registry, err = parser.LoadRegistry(config.AppFs, cfg.Schema.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	c.schema, err = graph.Build(c.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	d, err := dialect.ForProvider(cfg.DialectName())
	if err != nil {
		return nil, err
	}
	c.compiler = compiler.NewSQLCompiler(c.registry, d, compiler.WithStrictFilters(cfg.Compiler.StrictFilters))

	if cfg.Database.URL != "" {
		c.dbAdapter, err = database.NewAdapter(database.Config{
			Provider:       cfg.Database.Provider,
			URL:            cfg.Database.URL,
			MaxConnections: cfg.Database.MaxConnections,
			MaxIdleTime:    cfg.Database.MaxIdleTime,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create database adapter: %w", err)
		}
	}

	var exec domain.RowExecutor = executor.NewQueryExecutor(c.dbAdapter)
	if cfg.Database.Serial {
		c.serial = executor.NewSerial(exec)
		exec = c.serial
	}

	c.queryService = service.NewQueryService(c.registry, c.compiler, exec,
		service.WithMinify(cfg.Compiler.Minify),
		service.WithConcurrency(cfg.Server.Concurrency),
	)
	c.graphqlService = service.NewGraphQLService(c.schema, c.queryService, service.PathBlobLinks(cfg.Server.BlobsPath),
		service.WithDocumentCache(cache.NewDocumentCache(cfg.Server.DocumentCache, 0)),
	)
	return c, nil
}

// Connect opens the database.
func (c *Container) Connect(ctx context.Context) error {
	if c.dbAdapter == nil {
		return ErrNoDatabase
	}
	return c.dbAdapter.Connect(ctx)
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Database returns the database adapter, or nil when no URL is configured.
func (c *Container) Database() database.Adapter {
	return c.dbAdapter
}

// Registry returns the schema metadata.
func (c *Container) Registry() *schema.MetadataRegistry {
	return c.registry
}

// Schema returns the generated GraphQL schema.
func (c *Container) Schema() *graph.Schema {
	return c.schema
}

// Compiler returns the SQL compiler.
func (c *Container) Compiler() *compiler.SQLCompiler {
	return c.compiler
}

// QueryService returns the query service.
func (c *Container) QueryService() *service.QueryService {
	return c.queryService
}

// GraphQLService returns the GraphQL service.
func (c *Container) GraphQLService() *service.GraphQLService {
	return c.graphqlService
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return httpapi.NewHandler(c.graphqlService, c.queryService, httpapi.Options{BlobsPath: c.config.Server.BlobsPath})
}

// Close cleans up resources.
func (c *Container) Close(ctx context.Context) error {
	if c.serial != nil {
		c.serial.Close()
	}
	if c.dbAdapter != nil {
		return c.dbAdapter.Disconnect(ctx)
	}
	return nil
}
