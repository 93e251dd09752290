// Package graph generates the GraphQL type system of a schema registry and
// the explicit table that binds its fields to columns.
package graph

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/satishbabariya/gqlsql/internal/core/schema"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// Type names that are always present.
const (
	QueryTypeName    = "Objects"
	PageInfoTypeName = "PageInfo"
	DateScalarName   = "Date"
	URLScalarName    = "URL"
)

// Field names of connection types.
const (
	FieldEdges    = "edges"
	FieldNode     = "node"
	FieldCursor   = "cursor"
	FieldPageInfo = "pageInfo"
	FieldTotal    = "total"
)

// Link describes the join a link field performs.
type Link struct {
	// Table is the joined table.
	Table schemadomain.TableID
	// Target is the join column on the joined table. It is nil for root fields.
	Target *schemadomain.Column
	// List marks one-to-many links returning a connection.
	List bool
}

// Binding ties a GraphQL field to the schema. Leaf fields bind a Column;
// link fields bind the parent-side join Column and a Link.
type Binding struct {
	Column *schemadomain.Column
	Link   *Link
}

type bindingKey struct {
	typeName string
	field    string
}

// Schema is a generated GraphQL schema together with its bindings.
type Schema struct {
	AST      *ast.Schema
	SDL      string
	Registry *schema.MetadataRegistry

	bindings    map[bindingKey]*Binding
	tables      map[string]schemadomain.TableID
	typeNames   map[schemadomain.TableID]string
	connections map[string]string
}

// Binding returns the binding of a field of an object type.
func (s *Schema) Binding(typeName, field string) (*Binding, bool) {
	b, ok := s.bindings[bindingKey{typeName: typeName, field: field}]
	return b, ok
}

// TableForType returns the table an object type is bound to.
func (s *Schema) TableForType(typeName string) (*schemadomain.Table, bool) {
	id, ok := s.tables[typeName]
	if !ok {
		return nil, false
	}
	table, err := s.Registry.Table(id)
	if err != nil {
		return nil, false
	}
	return table, true
}

// TypeName returns the object type name of a table.
func (s *Schema) TypeName(table schemadomain.TableID) (string, bool) {
	name, ok := s.typeNames[table]
	return name, ok
}

// ConnectionNode returns the node type of a connection type.
func (s *Schema) ConnectionNode(typeName string) (string, bool) {
	node, ok := s.connections[typeName]
	return node, ok
}

// Definition returns the definition of a named type.
func (s *Schema) Definition(typeName string) *ast.Definition {
	return s.AST.Types[typeName]
}
