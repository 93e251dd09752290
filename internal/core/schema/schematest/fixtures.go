// Package schematest provides schema fixtures shared by tests.
package schematest

import (
	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// CustomerOrders returns tables customer{id, name, logo} and
// orders{id, customer_id -> customer.id, total, created, note}.
func CustomerOrders() []*domain.Table {
	return []*domain.Table{
		{
			OriginalName: "customer",
			Description:  "Customers",
			Columns: []*domain.Column{
				{OriginalName: "id", Type: domain.TypeInt, Primary: true, NonNull: true},
				{OriginalName: "name", Type: domain.TypeString, NonNull: true},
				{OriginalName: "logo", Type: domain.TypeBlob},
			},
		},
		{
			OriginalName: "orders",
			Columns: []*domain.Column{
				{OriginalName: "id", Type: domain.TypeInt, Primary: true, NonNull: true},
				{
					OriginalName: "customer_id",
					Type:         domain.TypeInt,
					Ref:          &domain.Reference{Table: "customer", Column: "customer.id"},
				},
				{OriginalName: "total", Type: domain.TypeFloat},
				{OriginalName: "created", Type: domain.TypeDate},
				{OriginalName: "note", Type: domain.TypeString},
			},
		},
	}
}

// MustRegistry builds a registry from tables and panics on error.
func MustRegistry(tables []*domain.Table) *schema.MetadataRegistry {
	r, err := schema.NewMetadataRegistry(tables)
	if err != nil {
		panic(err)
	}
	return r
}

// CustomerOrdersRegistry returns a registry over CustomerOrders.
func CustomerOrdersRegistry() *schema.MetadataRegistry {
	return MustRegistry(CustomerOrders())
}

// CollidingAliases returns tables whose readable column aliases collide:
// a_b{c, ref -> a.b_c} and a{b_c, y} both produce a_b_c.
func CollidingAliases() []*domain.Table {
	return []*domain.Table{
		{
			OriginalName: "a_b",
			Columns: []*domain.Column{
				{OriginalName: "c", Type: domain.TypeInt, Primary: true},
				{OriginalName: "ref", Type: domain.TypeInt, Ref: &domain.Reference{Table: "a", Column: "a.b_c"}},
			},
		},
		{
			OriginalName: "a",
			Columns: []*domain.Column{
				{OriginalName: "b_c", Type: domain.TypeInt, Primary: true},
				{OriginalName: "y", Type: domain.TypeString},
			},
		},
	}
}
