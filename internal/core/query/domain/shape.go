package domain

import (
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// OutputShape mirrors a compiled tree: every leaf names the column alias its
// value is read from and every link names the shape of its nested rows.
type OutputShape struct {
	Table  schemadomain.TableID
	Fields []ShapeField
}

// ShapeField is one entry of an OutputShape.
type ShapeField struct {
	Name    string
	Column  string
	Primary bool
	Nested  *OutputShape
	List    bool
}

// PrimaryColumns returns the aliases of the primary-key leaves.
func (s *OutputShape) PrimaryColumns() []string {
	var columns []string
	for _, f := range s.Fields {
		if f.Nested == nil && f.Primary {
			columns = append(columns, f.Column)
		}
	}
	return columns
}

// LeafColumns returns the aliases of every leaf.
func (s *OutputShape) LeafColumns() []string {
	var columns []string
	for _, f := range s.Fields {
		if f.Nested == nil {
			columns = append(columns, f.Column)
		}
	}
	return columns
}
