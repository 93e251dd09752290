// Package schema provides a metadata registry for schema information.
package schema

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// MetadataRegistry is an immutable arena of tables and columns indexed by
// identifier. Tables reference each other only through identifiers, so the
// registry is the single place where a reference is resolved.
//
// A registry is never modified after NewMetadataRegistry returns and may be
// shared by any number of goroutines.
type MetadataRegistry struct {
	tables      []*domain.Table
	byID        map[domain.TableID]*domain.Table
	byName      map[string]*domain.Table
	columns     map[domain.ColumnID]*domain.Column
	columnNames map[domain.TableID]map[string]*domain.Column
	referencing map[domain.TableID][]*domain.Column
}

// NewMetadataRegistry indexes the given tables. The registry takes ownership of
// them: missing identifiers are derived from original names and display names
// are assigned with EscapeName.
func NewMetadataRegistry(tables []*domain.Table) (*MetadataRegistry, error) {
	r := &MetadataRegistry{
		byID:        make(map[domain.TableID]*domain.Table),
		byName:      make(map[string]*domain.Table),
		columns:     make(map[domain.ColumnID]*domain.Column),
		columnNames: make(map[domain.TableID]map[string]*domain.Column),
		referencing: make(map[domain.TableID][]*domain.Column),
	}

	for _, table := range tables {
		if table.OriginalName == "" {
			return nil, fmt.Errorf("table without name")
		}
		if table.ID == "" {
			table.ID = domain.TableID(table.OriginalName)
		}
		if _, exists := r.byID[table.ID]; exists {
			return nil, fmt.Errorf("duplicate table %s", table.ID)
		}

		table.Name = EscapeName(table.OriginalName, func(name string) bool {
			_, taken := r.byName[name]
			return taken
		})
		r.byID[table.ID] = table
		r.byName[table.Name] = table
		r.tables = append(r.tables, table)

		names := make(map[string]*domain.Column, len(table.Columns))
		r.columnNames[table.ID] = names
		for _, column := range table.Columns {
			if column.OriginalName == "" {
				return nil, fmt.Errorf("column without name in table %s", table.ID)
			}
			column.Table = table.ID
			if column.ID == "" {
				column.ID = domain.NewColumnID(table.ID, column.OriginalName)
			}
			if _, exists := r.columns[column.ID]; exists {
				return nil, fmt.Errorf("duplicate column %s", column.ID)
			}
			column.Name = EscapeName(column.OriginalName, func(name string) bool {
				_, taken := names[name]
				return taken
			})
			r.columns[column.ID] = column
			names[column.Name] = column
		}
	}

	for _, table := range r.tables {
		for _, column := range table.Columns {
			if _, _, ok := r.ResolveReference(column); ok {
				r.referencing[column.Ref.Table] = append(r.referencing[column.Ref.Table], column)
			}
		}
	}

	return r, nil
}

// Tables returns every table in registration order.
func (r *MetadataRegistry) Tables() []*domain.Table {
	return r.tables
}

// Table retrieves a table by identifier.
func (r *MetadataRegistry) Table(id domain.TableID) (*domain.Table, error) {
	table, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("table %s not found", id)
	}
	return table, nil
}

// TableByName retrieves a table by display name.
func (r *MetadataRegistry) TableByName(name string) (*domain.Table, error) {
	table, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("table %s not found", name)
	}
	return table, nil
}

// Column retrieves a column by identifier.
func (r *MetadataRegistry) Column(id domain.ColumnID) (*domain.Column, error) {
	column, exists := r.columns[id]
	if !exists {
		return nil, fmt.Errorf("column %s not found", id)
	}
	return column, nil
}

// ColumnByName retrieves a column of a table by its display name.
func (r *MetadataRegistry) ColumnByName(table domain.TableID, name string) (*domain.Column, error) {
	column, exists := r.columnNames[table][name]
	if !exists {
		return nil, fmt.Errorf("column %s not found in table %s", name, table)
	}
	return column, nil
}

// PrimaryKeys returns the primary-key columns of a table.
func (r *MetadataRegistry) PrimaryKeys(table domain.TableID) []*domain.Column {
	t, exists := r.byID[table]
	if !exists {
		return nil
	}
	return t.PrimaryKeys()
}

// ResolveReference returns the target table and column of a link column. The
// boolean is false for plain columns and for links whose target is missing.
func (r *MetadataRegistry) ResolveReference(column *domain.Column) (*domain.Table, *domain.Column, bool) {
	if column == nil || column.Ref == nil {
		return nil, nil, false
	}
	table, exists := r.byID[column.Ref.Table]
	if !exists {
		return nil, nil, false
	}
	target, exists := r.columns[column.Ref.Column]
	if !exists || target.Table != table.ID {
		return nil, nil, false
	}
	return table, target, true
}

// ReferencingColumns returns the resolvable link columns of other tables that
// point at the given table.
func (r *MetadataRegistry) ReferencingColumns(table domain.TableID) []*domain.Column {
	return r.referencing[table]
}

// EscapeName turns a storage name into a name usable as a GraphQL identifier.
// A dollar sign becomes a double underscore, every other character outside
// [_0-9A-Za-z] becomes an underscore, a leading digit gets an underscore
// prefix and leading underscores collapse to one. Underscores are appended while taken reports the name as used.
func EscapeName(name string, taken func(string) bool) string {
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch == '$':
			b.WriteString("__")
		case ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}

	escaped := b.String()
	if escaped == "" || escaped[0] >= '0' && escaped[0] <= '9' {
		escaped = "_" + escaped
	}
	// A leading double underscore is reserved for introspection.
	if strings.HasPrefix(escaped, "__") {
		escaped = "_" + strings.TrimLeft(escaped, "_")
	}
	for taken != nil && taken(escaped) {
		escaped += "_"
	}
	return escaped
}
