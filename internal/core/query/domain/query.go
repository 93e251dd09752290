// Package domain contains the core entities and interfaces of the query pipeline.
package domain

import (
	"context"

	"github.com/satishbabariya/gqlsql/internal/core/query/alias"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// QueryTree is the schema-bound form of one client selection.
type QueryTree struct {
	Table  *schemadomain.Table
	Args   Args
	Alias  string
	Fields []*QueryField
}

// QueryField is one entry of a QueryTree. A leaf selects Column; a link field
// carries a Nested tree joined on Column = Target.
type QueryField struct {
	// Column is the selected column, or the parent-side join column of a link.
	Column *schemadomain.Column
	// Target is the nested-side join column of a link.
	Target *schemadomain.Column
	// Selection is the requested name. Implicit keys use the display name.
	Selection string
	Alias     string
	Nested    *QueryTree
	// List marks a one-to-many link.
	List     bool
	Implicit bool
}

// IsLink reports whether the field joins a nested tree.
func (f *QueryField) IsLink() bool {
	return f.Nested != nil
}

// Args holds the arguments of a tree node.
type Args struct {
	Where *Where
	Order []OrderTerm
	Page  PageArgs
}

// PageArgs holds relay connection pagination arguments.
type PageArgs struct {
	First  *int
	After  *string
	Last   *int
	Before *string
}

// SortDirection is the direction of an ORDER BY term.
type SortDirection string

const (
	// Asc sorts ascending.
	Asc SortDirection = "ASC"
	// Desc sorts descending.
	Desc SortDirection = "DESC"
)

// OrderTerm orders by the column with the given display name.
type OrderTerm struct {
	Column    string
	Direction SortDirection
}

// CompiledQuery is the SQL text of one tree plus the shape that rebuilds its
// result from rows.
type CompiledQuery struct {
	SQL     string
	Shape   *OutputShape
	Tree    *QueryTree
	Dialect string
}

// ConditionTarget is the column a filter condition applies to.
type ConditionTarget struct {
	// Expr is the qualified, quoted column reference.
	Expr string
	Type schemadomain.FieldType
}

// Dialect renders identifiers, literals and operators for one backend.
type Dialect interface {
	// Name returns the dialect name.
	Name() string

	// Quote quotes an identifier.
	Quote(identifier string) string

	// Escape renders a literal value.
	Escape(value interface{}) (string, error)

	// RenderCondition renders a leaf filter condition. An empty result means
	// the operator does not apply and the condition is dropped.
	RenderCondition(op FilterOperator, target ConditionTarget, value interface{}, hasValue bool) (string, error)
}

// QueryCompiler compiles a tree into SQL.
type QueryCompiler interface {
	// Compile compiles the tree using the given alias namespace.
	Compile(ctx context.Context, tree *QueryTree, ns *alias.Namespace) (*CompiledQuery, error)
}

// RowExecutor runs SQL text and returns rows keyed by column alias, in the
// order the backend produced them.
type RowExecutor interface {
	Execute(ctx context.Context, query string) ([]map[string]interface{}, error)
}
