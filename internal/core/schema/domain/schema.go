// Package domain contains the relational metadata the query pipeline is bound to.
package domain

import (
	"fmt"
	"strings"
)

// TableID identifies a table inside a registry.
type TableID string

// ColumnID identifies a column inside a registry. It has the form TABLE.COLUMN.
type ColumnID string

// NewColumnID builds the identifier of a column of the given table.
func NewColumnID(table TableID, column string) ColumnID {
	return ColumnID(string(table) + "." + column)
}

// FieldType is the storage type tag of a column.
type FieldType int

const (
	TypeID FieldType = iota
	TypeBoolean
	TypeString
	TypeInt
	TypeFloat
	TypeDate
	TypeBlob
)

var fieldTypeNames = map[FieldType]string{
	TypeID:      "ID",
	TypeBoolean: "BOOLEAN",
	TypeString:  "STRING",
	TypeInt:     "INT",
	TypeFloat:   "FLOAT",
	TypeDate:    "DATE",
	TypeBlob:    "BLOB",
}

// String returns the upper-case name of the type.
func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// ParseFieldType converts a type name (case-insensitive) into a FieldType.
func ParseFieldType(name string) (FieldType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for t, n := range fieldTypeNames {
		if n == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown field type %q", name)
}

// Reference points a link column at the column of another table it equals.
type Reference struct {
	Table  TableID
	Column ColumnID
}

// Table describes a relation of the underlying database.
type Table struct {
	ID           TableID
	OriginalName string
	// Name is the display name exposed to clients, escaped to be unique.
	Name        string
	Description string
	Columns     []*Column
}

// Column describes a column of a table.
type Column struct {
	ID           ColumnID
	Table        TableID
	OriginalName string
	Name         string
	Description  string
	NonNull      bool
	Type         FieldType
	Primary      bool
	Ref          *Reference
}

// IsLink reports whether the column declares a reference to another table.
func (c *Column) IsLink() bool {
	return c.Ref != nil
}

// PrimaryKeys returns the primary-key columns of the table in declaration order.
func (t *Table) PrimaryKeys() []*Column {
	var keys []*Column
	for _, c := range t.Columns {
		if c.Primary {
			keys = append(keys, c)
		}
	}
	return keys
}
