package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/core/schema"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/core/schema/schematest"
)

func TestBuild(t *testing.T) {
	s, err := Build(schematest.CustomerOrdersRegistry())
	require.NoError(t, err)

	t.Run("root fields", func(t *testing.T) {
		require.NotNil(t, s.AST.Query)
		assert.Equal(t, QueryTypeName, s.AST.Query.Name)

		field := s.AST.Query.Fields.ForName("customer")
		require.NotNil(t, field)
		assert.Equal(t, "customerConnection", field.Type.Name())
		for _, arg := range []string{"first", "after", "last", "before", "where", "order"} {
			assert.NotNil(t, field.Arguments.ForName(arg), arg)
		}

		binding, ok := s.Binding(QueryTypeName, "customer")
		require.True(t, ok)
		require.NotNil(t, binding.Link)
		assert.Equal(t, schemadomain.TableID("customer"), binding.Link.Table)
	})

	t.Run("object types", func(t *testing.T) {
		customer := s.Definition("customer")
		require.NotNil(t, customer)
		assert.Equal(t, "Int!", customer.Fields.ForName("id").Type.String())
		assert.Equal(t, "String!", customer.Fields.ForName("name").Type.String())
		assert.Equal(t, URLScalarName, customer.Fields.ForName("logo").Type.String())

		table, ok := s.TableForType("customer")
		require.True(t, ok)
		assert.Equal(t, schemadomain.TableID("customer"), table.ID)

		node, ok := s.ConnectionNode("ordersConnection")
		require.True(t, ok)
		assert.Equal(t, "orders", node)
	})

	t.Run("links", func(t *testing.T) {
		forward, ok := s.Binding("orders", "link_customer_id")
		require.True(t, ok)
		assert.Equal(t, schemadomain.ColumnID("orders.customer_id"), forward.Column.ID)
		assert.Equal(t, schemadomain.ColumnID("customer.id"), forward.Link.Target.ID)
		assert.False(t, forward.Link.List)
		assert.Equal(t, "customer", s.Definition("orders").Fields.ForName("link_customer_id").Type.String())

		reverse, ok := s.Binding("customer", "link_orders")
		require.True(t, ok)
		assert.Equal(t, schemadomain.ColumnID("customer.id"), reverse.Column.ID)
		assert.Equal(t, schemadomain.ColumnID("orders.customer_id"), reverse.Link.Target.ID)
		assert.True(t, reverse.Link.List)
		assert.Equal(t, "ordersConnection", s.Definition("customer").Fields.ForName("link_orders").Type.Name())
	})

	t.Run("filter inputs", func(t *testing.T) {
		filter := s.Definition("FILTER_orders")
		require.NotNil(t, filter)
		for _, name := range []string{"equals", "contains", "begins", "ends", "greater", "less", "isEmpty", "isNull", "or", "and", "not"} {
			assert.NotNil(t, filter.Fields.ForName(name), name)
		}

		equals := s.Definition("EQUALS_customer")
		require.NotNil(t, equals)
		assert.Nil(t, equals.Fields.ForName("logo"))

		greater := s.Definition("GREATER_OR_LESS_orders")
		require.NotNil(t, greater)
		assert.NotNil(t, greater.Fields.ForName("created"))
		assert.Nil(t, greater.Fields.ForName("note"))

		isNull := s.Definition("IS_NULL_FIELDS_customer")
		require.NotNil(t, isNull)
		assert.Len(t, isNull.EnumValues, 1)
		assert.Equal(t, "logo", isNull.EnumValues[0].Name)

		assert.NotNil(t, s.Definition("SORTING_FIELDS_orders"))
	})
}

func TestBuild_Names(t *testing.T) {
	registry, err := schema.NewMetadataRegistry([]*schemadomain.Table{
		{OriginalName: "PageInfo", Columns: []*schemadomain.Column{{OriginalName: "id", Type: schemadomain.TypeInt, Primary: true}}},
		{OriginalName: "empty"},
		{
			OriginalName: "employee",
			Description:  `Staff "members"`,
			Columns: []*schemadomain.Column{
				{OriginalName: "id", Type: schemadomain.TypeInt, Primary: true},
				{OriginalName: "manager", Type: schemadomain.TypeInt, Ref: &schemadomain.Reference{Table: "employee", Column: "employee.id"}},
				{OriginalName: "mentor", Type: schemadomain.TypeInt, Ref: &schemadomain.Reference{Table: "employee", Column: "employee.id"}},
				{OriginalName: "null", Type: schemadomain.TypeString},
			},
		},
	})
	require.NoError(t, err)

	s, err := Build(registry)
	require.NoError(t, err)

	name, ok := s.TypeName("PageInfo")
	require.True(t, ok)
	assert.Equal(t, "PageInfo_", name)

	_, ok = s.TypeName("empty")
	assert.False(t, ok)

	employee := s.Definition("employee")
	require.NotNil(t, employee)
	assert.NotNil(t, employee.Fields.ForName("link_manager"))
	assert.NotNil(t, employee.Fields.ForName("link_employee_manager"))
	assert.NotNil(t, employee.Fields.ForName("link_employee_mentor"))
	assert.Equal(t, `Staff "members"`, employee.Description)
}

func TestBuild_NoTables(t *testing.T) {
	registry, err := schema.NewMetadataRegistry(nil)
	require.NoError(t, err)
	_, err = Build(registry)
	assert.Error(t, err)
}
