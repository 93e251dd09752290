package compiler

import (
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// BuildShape derives the output shape of an aliased tree.
func BuildShape(tree *domain.QueryTree) *domain.OutputShape {
	shape := &domain.OutputShape{
		Table:  tree.Table.ID,
		Fields: make([]domain.ShapeField, 0, len(tree.Fields)),
	}
	for _, field := range tree.Fields {
		if field.IsLink() {
			shape.Fields = append(shape.Fields, domain.ShapeField{
				Name:   field.Selection,
				Nested: BuildShape(field.Nested),
				List:   field.List,
			})
			continue
		}
		shape.Fields = append(shape.Fields, domain.ShapeField{
			Name:    field.Selection,
			Column:  field.Alias,
			Primary: field.Column.Primary,
		})
	}
	return shape
}
