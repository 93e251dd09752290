package schema_test

import (
	"testing"

	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/core/schema/schematest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRegistry(t *testing.T) {
	t.Run("Table and Column lookup", func(t *testing.T) {
		registry := schematest.CustomerOrdersRegistry()

		customer, err := registry.Table("customer")
		require.NoError(t, err)
		assert.Equal(t, "customer", customer.Name)
		assert.Len(t, customer.Columns, 3)

		byName, err := registry.TableByName("orders")
		require.NoError(t, err)
		assert.Equal(t, domain.TableID("orders"), byName.ID)

		column, err := registry.Column("orders.customer_id")
		require.NoError(t, err)
		assert.Equal(t, domain.TableID("orders"), column.Table)

		_, err = registry.Table("missing")
		assert.Error(t, err)
		_, err = registry.ColumnByName("customer", "missing")
		assert.Error(t, err)
	})

	t.Run("PrimaryKeys", func(t *testing.T) {
		registry := schematest.CustomerOrdersRegistry()

		keys := registry.PrimaryKeys("orders")
		require.Len(t, keys, 1)
		assert.Equal(t, "id", keys[0].OriginalName)
		assert.Nil(t, registry.PrimaryKeys("missing"))
	})

	t.Run("ResolveReference", func(t *testing.T) {
		registry := schematest.CustomerOrdersRegistry()

		link, err := registry.Column("orders.customer_id")
		require.NoError(t, err)
		table, target, ok := registry.ResolveReference(link)
		require.True(t, ok)
		assert.Equal(t, domain.TableID("customer"), table.ID)
		assert.Equal(t, domain.ColumnID("customer.id"), target.ID)

		plain, err := registry.Column("orders.total")
		require.NoError(t, err)
		_, _, ok = registry.ResolveReference(plain)
		assert.False(t, ok)

		referencing := registry.ReferencingColumns("customer")
		require.Len(t, referencing, 1)
		assert.Equal(t, domain.ColumnID("orders.customer_id"), referencing[0].ID)
	})

	t.Run("inert link", func(t *testing.T) {
		registry, err := schema.NewMetadataRegistry([]*domain.Table{
			{
				OriginalName: "item",
				Columns: []*domain.Column{
					{OriginalName: "id", Type: domain.TypeInt, Primary: true},
					{OriginalName: "owner", Type: domain.TypeInt, Ref: &domain.Reference{Table: "ghost", Column: "ghost.id"}},
				},
			},
		})
		require.NoError(t, err)

		owner, err := registry.Column("item.owner")
		require.NoError(t, err)
		_, _, ok := registry.ResolveReference(owner)
		assert.False(t, ok)
		assert.Empty(t, registry.ReferencingColumns("ghost"))
	})

	t.Run("duplicate table", func(t *testing.T) {
		_, err := schema.NewMetadataRegistry([]*domain.Table{
			{OriginalName: "a"},
			{OriginalName: "a"},
		})
		assert.Error(t, err)
	})

	t.Run("display names are unique", func(t *testing.T) {
		registry, err := schema.NewMetadataRegistry([]*domain.Table{
			{OriginalName: "A$B"},
			{OriginalName: "A__B"},
			{OriginalName: "ORDER LINES", Columns: []*domain.Column{
				{OriginalName: "1ST"},
				{OriginalName: "RDB$ID"},
			}},
		})
		require.NoError(t, err)

		tables := registry.Tables()
		require.Len(t, tables, 3)
		assert.Equal(t, "A__B", tables[0].Name)
		assert.Equal(t, "A__B_", tables[1].Name)
		assert.Equal(t, "ORDER_LINES", tables[2].Name)
		assert.Equal(t, "_1ST", tables[2].Columns[0].Name)
		assert.Equal(t, "RDB__ID", tables[2].Columns[1].Name)
	})
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		taken    []string
		expected string
	}{
		{name: "plain", input: "customer", expected: "customer"},
		{name: "dollar", input: "RDB$FIELD", expected: "RDB__FIELD"},
		{name: "punctuation", input: "a-b.c", expected: "a_b_c"},
		{name: "leading digit", input: "9lives", expected: "_9lives"},
		{name: "empty", input: "", expected: "_"},
		{name: "leading dollar", input: "$x", expected: "_x"},
		{name: "taken twice", input: "x", taken: []string{"x", "x_"}, expected: "x__"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			used := make(map[string]bool)
			for _, name := range tt.taken {
				used[name] = true
			}
			got := schema.EscapeName(tt.input, func(name string) bool { return used[name] })
			assert.Equal(t, tt.expected, got)
		})
	}
}
