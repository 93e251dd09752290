package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

// filterGroups renders a where object into condition groups that are ANDed
// by the caller. Every group is either a single condition or parenthesized.
func (c *SQLCompiler) filterGroups(tree *domain.QueryTree, where *domain.Where) ([]string, error) {
	if where == nil {
		return nil, nil
	}

	var groups []string
	for _, leaf := range where.Leaves {
		var conditions []string
		for _, term := range leaf.Terms {
			column, err := c.lookupColumn(tree, term.Column)
			if err != nil {
				return nil, err
			}
			target := domain.ConditionTarget{
				Expr: c.columnRef(tree.Alias, column.OriginalName),
				Type: column.Type,
			}
			condition, err := c.dialect.RenderCondition(leaf.Operator, target, term.Value, term.HasValue)
			if err != nil {
				return nil, &domain.CompileError{Table: tree.Table.Name, Field: term.Column, Cause: err}
			}
			if condition != "" {
				conditions = append(conditions, condition)
			}
		}
		if len(conditions) > 0 {
			groups = append(groups, joinConditions(conditions, " AND "))
		}
	}

	for _, op := range where.Unknown {
		if c.strict {
			return nil, &domain.CompileError{Table: tree.Table.Name, Cause: fmt.Errorf("%w: %s", domain.ErrUnknownOperator, op)}
		}
		debug.Warn("Dropping unknown filter operator", "table", tree.Table.Name, "operator", op)
	}

	for _, name := range where.IsNull {
		column, err := c.lookupColumn(tree, name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, c.columnRef(tree.Alias, column.OriginalName)+" IS NULL")
	}

	if len(where.Not) > 0 {
		conditions, err := c.flatten(tree, where.Not)
		if err != nil {
			return nil, err
		}
		if len(conditions) > 0 {
			groups = append(groups, "NOT ("+strings.Join(conditions, " AND ")+")")
		}
	}

	if len(where.Or) > 0 {
		var alternatives []string
		for _, item := range where.Or {
			sub, err := c.filterGroups(tree, item)
			if err != nil {
				return nil, err
			}
			if alternative := joinConditions(sub, " AND "); alternative != "" {
				alternatives = append(alternatives, alternative)
			}
		}
		if len(alternatives) > 0 {
			groups = append(groups, joinConditions(alternatives, " OR "))
		}
	}

	if len(where.And) > 0 {
		conditions, err := c.flatten(tree, where.And)
		if err != nil {
			return nil, err
		}
		if len(conditions) > 0 {
			groups = append(groups, joinConditions(conditions, " AND "))
		}
	}

	return groups, nil
}

// flatten renders a list of where objects whose conditions are all ANDed.
func (c *SQLCompiler) flatten(tree *domain.QueryTree, items []*domain.Where) ([]string, error) {
	var conditions []string
	for _, item := range items {
		sub, err := c.filterGroups(tree, item)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, sub...)
	}
	return conditions, nil
}

// lookupColumn resolves a display name against the node's table.
func (c *SQLCompiler) lookupColumn(tree *domain.QueryTree, name string) (*schemadomain.Column, error) {
	for _, column := range tree.Table.Columns {
		if column.Name == name {
			return column, nil
		}
	}
	return nil, &domain.CompileError{Table: tree.Table.Name, Field: name, Cause: domain.ErrUnknownColumn}
}
