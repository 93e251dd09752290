package compiler

import (
	"fmt"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// NewLookupTree builds a single-node tree that selects the given columns of
// the row identified by key. Key maps primary-key display names to values and
// must name every primary key of the table.
func NewLookupTree(table *schemadomain.Table, columns []string, key map[string]interface{}) (*domain.QueryTree, error) {
	primary := table.PrimaryKeys()
	if len(primary) == 0 {
		return nil, fmt.Errorf("%w: table %s", domain.ErrNoPrimaryKey, table.Name)
	}

	tree := &domain.QueryTree{Table: table}
	terms := make([]domain.FilterTerm, 0, len(primary))
	for _, column := range primary {
		value, ok := key[column.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s.%s", domain.ErrNoPrimaryKey, table.Name, column.Name)
		}
		terms = append(terms, domain.FilterTerm{Column: column.Name, Value: value, HasValue: true})
		tree.Fields = append(tree.Fields, &domain.QueryField{Column: column, Selection: column.Name, Implicit: true})
	}

	for _, name := range columns {
		column := findColumn(table, name)
		if column == nil {
			return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnknownColumn, table.Name, name)
		}
		if column.Primary {
			continue
		}
		tree.Fields = append(tree.Fields, &domain.QueryField{Column: column, Selection: column.Name})
	}

	tree.Args.Where = &domain.Where{
		Leaves: []domain.LeafFilter{{Operator: domain.Equals, Terms: terms}},
	}
	return tree, nil
}

func findColumn(table *schemadomain.Table, name string) *schemadomain.Column {
	for _, column := range table.Columns {
		if column.Name == name {
			return column
		}
	}
	return nil
}
