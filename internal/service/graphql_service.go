package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/analyzer"
	"github.com/satishbabariya/gqlsql/internal/core/query/cache"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// Request is a GraphQL request.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is a GraphQL response. Data is null when the request could not be
// executed at all.
type Response struct {
	Data       domain.Object          `json:"data"`
	Errors     gqlerror.List          `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Plan is the compiled form of one top-level field.
type Plan struct {
	Key   string
	Tree  *domain.QueryTree
	Query *domain.CompiledQuery
	Err   error
}

// GraphQLService answers GraphQL queries against the generated schema.
type GraphQLService struct {
	schema   *graph.Schema
	analyzer *analyzer.Analyzer
	queries  *QueryService
	blobs    BlobLinkCreator

	documents *cache.DocumentCache
}

// GraphQLOption configures a GraphQLService.
type GraphQLOption func(*GraphQLService)

// WithDocumentCache reuses validated documents of repeated query texts.
func WithDocumentCache(documents *cache.DocumentCache) GraphQLOption {
	return func(s *GraphQLService) {
		s.documents = documents
	}
}

// NewGraphQLService creates a new GraphQL service. BLOB fields resolve to the
// URL blobs returns for them, or null when blobs is nil.
func NewGraphQLService(schema *graph.Schema, queries *QueryService, blobs BlobLinkCreator, opts ...GraphQLOption) *GraphQLService {
	s := &GraphQLService{
		schema:   schema,
		analyzer: analyzer.New(schema),
		queries:  queries,
		blobs:    blobs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Documents returns the document cache, which may be nil.
func (s *GraphQLService) Documents() *cache.DocumentCache {
	return s.documents
}

// Schema returns the generated schema.
func (s *GraphQLService) Schema() *graph.Schema {
	return s.schema
}

type prepared struct {
	doc    *ast.QueryDocument
	op     *ast.OperationDefinition
	vars   map[string]interface{}
	groups []analyzer.FieldGroup
}

func (s *GraphQLService) prepare(req Request) (*prepared, gqlerror.List) {
	doc, cached := s.documents.Get(req.Query)
	if !cached {
		var errs gqlerror.List
		doc, errs = gqlparser.LoadQuery(s.schema.AST, req.Query)
		if len(errs) > 0 {
			return nil, errs
		}
		s.documents.Add(req.Query, doc)
	}

	op, err := operation(doc, req.OperationName)
	if err != nil {
		return nil, gqlerror.List{gqlerror.Errorf("%s", err.Error())}
	}
	if op.Operation != ast.Query {
		return nil, gqlerror.List{gqlerror.Errorf("%s operations are not supported", op.Operation)}
	}

	vars, verr := validator.VariableValues(s.schema.AST, op, req.Variables)
	if verr != nil {
		return nil, gqlerror.List{gqlerror.Errorf("%s", verr.Error())}
	}

	groups := analyzer.GroupFields([]ast.SelectionSet{op.SelectionSet}, doc.Fragments, s.schema.AST.Query.Name, vars)
	return &prepared{doc: doc, op: op, vars: vars, groups: groups}, nil
}

func operation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, fmt.Errorf("operation name is required when the document has %d operations", len(doc.Operations))
		}
		return doc.Operations[0], nil
	}
	op := doc.Operations.ForName(name)
	if op == nil {
		return nil, fmt.Errorf("unknown operation %q", name)
	}
	return op, nil
}

// Plan parses and validates a request and compiles each of its table-bound
// top-level fields without executing them.
func (s *GraphQLService) Plan(ctx context.Context, req Request) ([]Plan, gqlerror.List) {
	p, errs := s.prepare(req)
	if errs != nil {
		return nil, errs
	}

	root := s.schema.AST.Query.Name
	var plans []Plan
	for _, group := range p.groups {
		tree, err := s.analyzer.AnalyzeGroup(group, root, p.doc.Fragments, p.vars)
		if tree == nil && err == nil {
			continue
		}
		plan := Plan{Key: group.Key, Tree: tree, Err: err}
		if err == nil {
			plan.Query, plan.Err = s.queries.Compile(ctx, tree)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Execute runs a request. Each top-level field runs as one statement; a
// failing field is reported as an error with a null value and does not affect
// its siblings.
func (s *GraphQLService) Execute(ctx context.Context, req Request) *Response {
	p, errs := s.prepare(req)
	if errs != nil {
		return &Response{Errors: errs}
	}

	root := s.schema.AST.Query
	type pending struct {
		index int
		group analyzer.FieldGroup
		tree  *domain.QueryTree
	}
	var (
		waiting []pending
		trees   []*domain.QueryTree
	)

	data := make(domain.Object, len(p.groups))
	for i, group := range p.groups {
		data[i].Key = group.Key
		name := group.First().Name
		if name == "__typename" {
			data[i].Value = root.Name
			continue
		}
		if strings.HasPrefix(name, "__") {
			errs = append(errs, fieldError(group.Key, fmt.Errorf("introspection is not supported")))
			continue
		}

		tree, err := s.analyzer.AnalyzeGroup(group, root.Name, p.doc.Fragments, p.vars)
		if err != nil {
			errs = append(errs, fieldError(group.Key, err))
			continue
		}
		if tree == nil {
			continue
		}
		waiting = append(waiting, pending{index: i, group: group, tree: tree})
		trees = append(trees, tree)
	}

	results := s.queries.RunAll(ctx, trees)
	ex := &projection{service: s, fragments: p.doc.Fragments, vars: p.vars}
	for j, w := range waiting {
		if err := results[j].Err; err != nil {
			errs = append(errs, fieldError(w.group.Key, err))
			continue
		}
		connType := fieldTypeName(root, w.group.First().Name)
		value, err := ex.connection(results[j].Objects, w.tree, connType, w.group.SelectionSets())
		if err != nil {
			errs = append(errs, fieldError(w.group.Key, err))
			continue
		}
		data[w.index].Value = value
	}

	return &Response{Data: data, Errors: errs}
}

func fieldError(key string, err error) *gqlerror.Error {
	return gqlerror.ErrorPathf(ast.Path{ast.PathName(key)}, "%s", err.Error())
}

func fieldTypeName(def *ast.Definition, field string) string {
	if def == nil {
		return ""
	}
	if f := def.Fields.ForName(field); f != nil {
		return f.Type.Name()
	}
	return ""
}
