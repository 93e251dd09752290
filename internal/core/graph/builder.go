package graph

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/satishbabariya/gqlsql/internal/core/schema"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

const connectionArgs = "first: Int, after: String, last: Int, before: String"

var reservedTypeNames = []string{
	QueryTypeName, PageInfoTypeName, DateScalarName, URLScalarName,
	"Int", "Float", "String", "Boolean", "ID",
}

type builder struct {
	registry *schema.MetadataRegistry
	out      strings.Builder
	used     map[string]bool
	result   *Schema
	tables   []*schemadomain.Table
}

// Build generates the GraphQL schema of a registry. Every table becomes an
// object type, a connection type and the filter and sorting input types used
// by the root query field of the same name.
func Build(registry *schema.MetadataRegistry) (*Schema, error) {
	b := &builder{
		registry: registry,
		used:     make(map[string]bool),
		result: &Schema{
			Registry:    registry,
			bindings:    make(map[bindingKey]*Binding),
			tables:      make(map[string]schemadomain.TableID),
			typeNames:   make(map[schemadomain.TableID]string),
			connections: make(map[string]string),
		},
	}
	for _, name := range reservedTypeNames {
		b.used[name] = true
	}

	for _, table := range registry.Tables() {
		if len(table.Columns) == 0 {
			debug.Warn("Skipping table without columns", "table", table.OriginalName)
			continue
		}
		name := schema.EscapeName(table.Name, b.typeTaken)
		for _, derived := range derivedTypeNames(name) {
			b.used[derived] = true
		}
		b.result.tables[name] = table.ID
		b.result.typeNames[table.ID] = name
		b.result.connections[name+"Connection"] = name
		b.tables = append(b.tables, table)
	}
	if len(b.tables) == 0 {
		return nil, fmt.Errorf("schema has no tables")
	}

	b.writeHeader()
	for _, table := range b.tables {
		b.writeTable(table)
	}

	b.result.SDL = b.out.String()
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: b.result.SDL})
	if err != nil {
		return nil, fmt.Errorf("failed to load generated schema: %w", err)
	}
	b.result.AST = parsed
	return b.result, nil
}

func derivedTypeNames(name string) []string {
	return []string{
		name,
		name + "Connection",
		name + "Edge",
		"FILTER_" + name,
		"EQUALS_" + name,
		"CONTAINS_" + name,
		"BEGINS_OR_ENDS_" + name,
		"GREATER_OR_LESS_" + name,
		"IS_EMPTY_FIELDS_" + name,
		"IS_NULL_FIELDS_" + name,
		"SORTING_" + name,
		"SORTING_FIELDS_" + name,
	}
}

func (b *builder) typeTaken(name string) bool {
	for _, derived := range derivedTypeNames(name) {
		if b.used[derived] {
			return true
		}
	}
	return false
}

func (b *builder) writeHeader() {
	b.printf("schema {\n  query: %s\n}\n\n", QueryTypeName)
	b.printf("scalar %s\n\nscalar %s\n\n", DateScalarName, URLScalarName)
	b.printf("type %s {\n", PageInfoTypeName)
	b.printf("  hasNextPage: Boolean!\n  hasPreviousPage: Boolean!\n  startCursor: String\n  endCursor: String\n}\n\n")

	b.printf("type %s {\n", QueryTypeName)
	for _, table := range b.tables {
		name := b.result.typeNames[table.ID]
		b.description("  ", table.Description)
		b.printf("  %s(%s): %sConnection\n", name, b.linkArgs(name), name)
		b.bind(QueryTypeName, name, &Binding{Link: &Link{Table: table.ID, List: true}})
	}
	b.printf("}\n\n")
}

func (b *builder) linkArgs(typeName string) string {
	return fmt.Sprintf("%s, where: FILTER_%s, order: [SORTING_%s]", connectionArgs, typeName, typeName)
}

func (b *builder) writeTable(table *schemadomain.Table) {
	name := b.result.typeNames[table.ID]
	fields := make(map[string]bool)

	b.description("", table.Description)
	b.printf("type %s {\n", name)
	for _, column := range table.Columns {
		fields[column.Name] = true
		b.description("  ", column.Description)
		b.printf("  %s: %s\n", column.Name, outputType(column))
		b.bind(name, column.Name, &Binding{Column: column})
	}

	// many-to-one links to the referenced row
	for _, column := range table.Columns {
		target, targetColumn, ok := b.registry.ResolveReference(column)
		if !ok {
			continue
		}
		targetType, ok := b.result.typeNames[target.ID]
		if !ok {
			continue
		}
		field := uniqueField(fields, "link_"+column.Name)
		b.description("  ", column.Description)
		b.printf("  %s: %s\n", field, targetType)
		b.bind(name, field, &Binding{Column: column, Link: &Link{Table: target.ID, Target: targetColumn}})
	}

	// one-to-many links to the referencing rows
	referencing := b.registry.ReferencingColumns(table.ID)
	perTable := make(map[schemadomain.TableID]int)
	for _, column := range referencing {
		perTable[column.Table]++
	}
	for _, column := range referencing {
		childType, ok := b.result.typeNames[column.Table]
		if !ok {
			continue
		}
		child, err := b.registry.Table(column.Table)
		if err != nil {
			continue
		}
		_, parentColumn, ok := b.registry.ResolveReference(column)
		if !ok {
			continue
		}
		candidate := "link_" + child.Name
		if perTable[column.Table] > 1 || fields[candidate] {
			candidate += "_" + column.Name
		}
		field := uniqueField(fields, candidate)
		b.printf("  %s(%s): %sConnection\n", field, b.linkArgs(childType), childType)
		b.bind(name, field, &Binding{Column: parentColumn, Link: &Link{Table: column.Table, Target: column, List: true}})
	}
	b.printf("}\n\n")

	b.printf("type %sConnection {\n  %s: Int\n  %s: [%sEdge]\n  %s: %s!\n}\n\n",
		name, FieldTotal, FieldEdges, name, FieldPageInfo, PageInfoTypeName)
	b.printf("type %sEdge {\n  %s: %s\n  %s: String!\n}\n\n", name, FieldNode, name, FieldCursor)

	b.writeFilter(name, table)
	b.writeSorting(name, table)
}

func (b *builder) writeFilter(name string, table *schemadomain.Table) {
	var filterFields []string

	equals := b.inputType("EQUALS_"+name, table, func(c *schemadomain.Column) bool {
		return c.Type != schemadomain.TypeBlob
	})
	if equals != "" {
		filterFields = append(filterFields, "equals: "+equals)
	}
	contains := b.inputType("CONTAINS_"+name, table, func(c *schemadomain.Column) bool {
		return c.Type == schemadomain.TypeString
	})
	if contains != "" {
		filterFields = append(filterFields, "contains: "+contains)
	}
	beginsOrEnds := b.inputType("BEGINS_OR_ENDS_"+name, table, func(c *schemadomain.Column) bool {
		return c.Type == schemadomain.TypeString
	})
	if beginsOrEnds != "" {
		filterFields = append(filterFields, "begins: "+beginsOrEnds, "ends: "+beginsOrEnds)
	}
	greaterOrLess := b.inputType("GREATER_OR_LESS_"+name, table, func(c *schemadomain.Column) bool {
		return c.Type == schemadomain.TypeInt || c.Type == schemadomain.TypeFloat || c.Type == schemadomain.TypeDate
	})
	if greaterOrLess != "" {
		filterFields = append(filterFields, "greater: "+greaterOrLess, "less: "+greaterOrLess)
	}
	isEmpty := b.enumType("IS_EMPTY_FIELDS_"+name, table, func(c *schemadomain.Column) bool {
		return c.Type == schemadomain.TypeString || c.Type == schemadomain.TypeBlob
	})
	if isEmpty != "" {
		filterFields = append(filterFields, "isEmpty: "+isEmpty)
	}
	isNull := b.enumType("IS_NULL_FIELDS_"+name, table, func(c *schemadomain.Column) bool {
		return !c.NonNull
	})
	if isNull != "" {
		filterFields = append(filterFields, "isNull: "+isNull)
	}

	filter := "FILTER_" + name
	filterFields = append(filterFields, "or: ["+filter+"]", "and: ["+filter+"]", "not: ["+filter+"]")

	b.printf("input %s {\n", filter)
	for _, f := range filterFields {
		b.printf("  %s\n", f)
	}
	b.printf("}\n\n")
}

func (b *builder) writeSorting(name string, table *schemadomain.Table) {
	fields := b.enumType("SORTING_FIELDS_"+name, table, func(*schemadomain.Column) bool { return true })
	if fields == "" {
		fields = "String"
	}
	b.printf("input SORTING_%s {\n  asc: %s\n  desc: %s\n}\n\n", name, fields, fields)
}

// inputType writes an input object with one field per matching column and
// returns its name, or "" when no column matches.
func (b *builder) inputType(name string, table *schemadomain.Table, match func(*schemadomain.Column) bool) string {
	var columns []*schemadomain.Column
	for _, c := range table.Columns {
		if match(c) {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return ""
	}
	b.printf("input %s {\n", name)
	for _, c := range columns {
		b.printf("  %s: %s\n", c.Name, scalarType(c.Type))
	}
	b.printf("}\n\n")
	return name
}

// enumType writes an enum of matching column names and returns its name, or
// "" when no column matches.
func (b *builder) enumType(name string, table *schemadomain.Table, match func(*schemadomain.Column) bool) string {
	var values []string
	for _, c := range table.Columns {
		if match(c) && validEnumValue(c.Name) {
			values = append(values, c.Name)
		}
	}
	if len(values) == 0 {
		return ""
	}
	b.printf("enum %s {\n", name)
	for _, v := range values {
		b.printf("  %s\n", v)
	}
	b.printf("}\n\n")
	return name
}

func (b *builder) bind(typeName, field string, binding *Binding) {
	b.result.bindings[bindingKey{typeName: typeName, field: field}] = binding
}

func (b *builder) description(indent, text string) {
	if text == "" {
		return
	}
	b.printf("%s%s\n", indent, quoteString(text))
}

func (b *builder) printf(format string, args ...interface{}) {
	fmt.Fprintf(&b.out, format, args...)
}

func uniqueField(fields map[string]bool, name string) string {
	for fields[name] {
		name += "_"
	}
	fields[name] = true
	return name
}

func validEnumValue(name string) bool {
	switch name {
	case "true", "false", "null":
		return false
	}
	return true
}

func outputType(c *schemadomain.Column) string {
	t := scalarType(c.Type)
	if c.NonNull {
		t += "!"
	}
	return t
}

func scalarType(t schemadomain.FieldType) string {
	switch t {
	case schemadomain.TypeID:
		return "ID"
	case schemadomain.TypeBoolean:
		return "Boolean"
	case schemadomain.TypeInt:
		return "Int"
	case schemadomain.TypeFloat:
		return "Float"
	case schemadomain.TypeDate:
		return DateScalarName
	case schemadomain.TypeBlob:
		return URLScalarName
	default:
		return "String"
	}
}

// quoteString renders a GraphQL string literal.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
