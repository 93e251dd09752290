// Package compiler implements SQL compilation of query trees.
package compiler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/gqlsql/internal/core/query/alias"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// SQLCompiler implements the domain.QueryCompiler interface.
type SQLCompiler struct {
	registry *schema.MetadataRegistry
	dialect  domain.Dialect
	strict   bool
}

// Option configures a SQLCompiler.
type Option func(*SQLCompiler)

// WithStrictFilters makes unrecognized filter operators a compile error
// instead of dropping them.
func WithStrictFilters(strict bool) Option {
	return func(c *SQLCompiler) {
		c.strict = strict
	}
}

// NewSQLCompiler creates a new SQL compiler.
func NewSQLCompiler(registry *schema.MetadataRegistry, dialect domain.Dialect, opts ...Option) *SQLCompiler {
	c := &SQLCompiler{
		registry: registry,
		dialect:  dialect,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect the compiler renders with.
func (c *SQLCompiler) Dialect() domain.Dialect {
	return c.dialect
}

// Compile assigns aliases to every node and field of the tree, then renders
// one SELECT statement with its joins, filters and ordering.
func (c *SQLCompiler) Compile(ctx context.Context, tree *domain.QueryTree, ns *alias.Namespace) (*domain.CompiledQuery, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if tree == nil || tree.Table == nil {
		return nil, fmt.Errorf("query tree has no table")
	}
	if ns == nil {
		ns = alias.NewNamespace(false)
	}

	if err := c.assignAliases(tree, ns, make(map[string]struct{})); err != nil {
		return nil, err
	}

	sql, err := c.render(tree)
	if err != nil {
		return nil, err
	}

	debug.Debug("Compiled query", "table", tree.Table.OriginalName, "dialect", c.dialect.Name(), "sql", sql)

	return &domain.CompiledQuery{
		SQL:     sql,
		Shape:   BuildShape(tree),
		Tree:    tree,
		Dialect: c.dialect.Name(),
	}, nil
}

// assignAliases gives the node a table alias and every field a column alias
// of the form <table alias>_<column symbol>.
func (c *SQLCompiler) assignAliases(tree *domain.QueryTree, ns *alias.Namespace, used map[string]struct{}) error {
	tree.Alias = ns.Generate(alias.KindTable, tree.Table.OriginalName)

	for _, field := range tree.Fields {
		if field.Column == nil {
			return &domain.CompileError{Table: tree.Table.Name, Field: field.Selection, Cause: domain.ErrUnknownColumn}
		}
		if !field.IsLink() {
			columnAlias := tree.Alias + "_" + ns.Generate(alias.KindColumn, field.Column.OriginalName)
			for {
				if _, taken := used[columnAlias]; !taken {
					break
				}
				columnAlias += "$"
			}
			used[columnAlias] = struct{}{}
			field.Alias = columnAlias
			continue
		}

		if err := c.checkLink(tree, field); err != nil {
			return err
		}
		if err := c.assignAliases(field.Nested, ns, used); err != nil {
			return err
		}
		field.Alias = field.Nested.Alias
	}
	return nil
}

func (c *SQLCompiler) checkLink(tree *domain.QueryTree, field *domain.QueryField) error {
	nested := field.Nested
	if nested.Table == nil || field.Target == nil || field.Target.Table != nested.Table.ID {
		return &domain.CompileError{Table: tree.Table.Name, Field: field.Selection, Cause: domain.ErrUnresolvedLink}
	}
	if c.registry != nil {
		if _, err := c.registry.Column(field.Target.ID); err != nil {
			return &domain.CompileError{Table: tree.Table.Name, Field: field.Selection, Cause: fmt.Errorf("%w: %v", domain.ErrUnresolvedLink, err)}
		}
	}
	return nil
}

func (c *SQLCompiler) render(tree *domain.QueryTree) (string, error) {
	var sb strings.Builder

	sb.WriteString("SELECT\n")
	sb.WriteString(strings.Join(c.selectList(tree), ",\n"))
	sb.WriteString("\nFROM ")
	sb.WriteString(c.tableName(tree.Table.OriginalName))
	sb.WriteString(" ")
	sb.WriteString(c.dialect.Quote(tree.Alias))

	if joins := c.joins(tree); len(joins) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(joins, "\n"))
	}

	where, err := c.whereClause(tree)
	if err != nil {
		return "", err
	}
	if where != "" {
		sb.WriteString("\nWHERE ")
		sb.WriteString(where)
	}

	order, err := c.orderClause(tree)
	if err != nil {
		return "", err
	}
	if len(order) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(strings.Join(order, ", "))
	}

	return sb.String(), nil
}

func (c *SQLCompiler) selectList(tree *domain.QueryTree) []string {
	var fields []string
	for _, field := range tree.Fields {
		if !field.IsLink() {
			fields = append(fields, "  "+c.columnRef(tree.Alias, field.Column.OriginalName)+" AS "+c.dialect.Quote(field.Alias))
		}
	}
	for _, field := range tree.Fields {
		if field.IsLink() {
			fields = append(fields, c.selectList(field.Nested)...)
		}
	}
	return fields
}

func (c *SQLCompiler) joins(tree *domain.QueryTree) []string {
	var joins []string
	for _, field := range tree.Fields {
		if !field.IsLink() {
			continue
		}
		nested := field.Nested
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s AS %s ON %s = %s",
			c.tableName(nested.Table.OriginalName),
			c.dialect.Quote(nested.Alias),
			c.columnRef(nested.Alias, field.Target.OriginalName),
			c.columnRef(tree.Alias, field.Column.OriginalName),
		))
	}
	for _, field := range tree.Fields {
		if field.IsLink() {
			joins = append(joins, c.joins(field.Nested)...)
		}
	}
	return joins
}

// whereClause ANDs the node's own filter with the filters of every nested node.
func (c *SQLCompiler) whereClause(tree *domain.QueryTree) (string, error) {
	var parts []string

	groups, err := c.filterGroups(tree, tree.Args.Where)
	if err != nil {
		return "", err
	}
	if own := joinConditions(groups, " AND "); own != "" {
		parts = append(parts, own)
	}

	for _, field := range tree.Fields {
		if !field.IsLink() {
			continue
		}
		nested, err := c.whereClause(field.Nested)
		if err != nil {
			return "", err
		}
		if nested != "" {
			parts = append(parts, nested)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func (c *SQLCompiler) orderClause(tree *domain.QueryTree) ([]string, error) {
	var order []string
	for _, term := range tree.Args.Order {
		column, err := c.lookupColumn(tree, term.Column)
		if err != nil {
			return nil, err
		}
		order = append(order, c.columnRef(tree.Alias, column.OriginalName)+" "+string(term.Direction))
	}
	for _, field := range tree.Fields {
		if !field.IsLink() {
			continue
		}
		nested, err := c.orderClause(field.Nested)
		if err != nil {
			return nil, err
		}
		order = append(order, nested...)
	}
	return order, nil
}

func (c *SQLCompiler) columnRef(tableAlias, column string) string {
	return c.dialect.Quote(tableAlias) + "." + c.dialect.Quote(column)
}

// tableName renders a storage table name, quoting it only when it is not a
// plain identifier.
func (c *SQLCompiler) tableName(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return c.dialect.Quote(name)
}

// joinConditions joins conditions with sep, parenthesizing more than one.
func joinConditions(conditions []string, sep string) string {
	switch len(conditions) {
	case 0:
		return ""
	case 1:
		return conditions[0]
	default:
		return "(" + strings.Join(conditions, sep) + ")"
	}
}
