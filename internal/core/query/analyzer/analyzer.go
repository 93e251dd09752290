// Package analyzer turns GraphQL selections into schema-bound query trees.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// Request is one selection to analyze.
type Request struct {
	// Fields are the top-level fields, each producing at most one tree.
	Fields     []*ast.Field
	ParentType *ast.Definition
	Fragments  ast.FragmentDefinitionList
	Variables  map[string]interface{}
}

// Analyzer builds query trees against a generated schema.
type Analyzer struct {
	schema *graph.Schema
}

// New creates an analyzer over the given schema.
func New(schema *graph.Schema) *Analyzer {
	return &Analyzer{schema: schema}
}

type scope struct {
	fragments ast.FragmentDefinitionList
	vars      map[string]interface{}
}

// Analyze returns one tree per top-level field bound to a table. Fields whose
// type is not bound to a table produce no tree. Fields sharing a response key
// are merged.
func (a *Analyzer) Analyze(req Request) ([]*domain.QueryTree, error) {
	if req.ParentType == nil {
		return nil, fmt.Errorf("analyze: missing parent type")
	}
	var trees []*domain.QueryTree
	for _, group := range groupFields(req.Fields) {
		tree, err := a.AnalyzeGroup(group, req.ParentType.Name, req.Fragments, req.Variables)
		if err != nil {
			return nil, err
		}
		if tree != nil {
			trees = append(trees, tree)
		}
	}
	return trees, nil
}

// AnalyzeField builds the tree of one top-level field. It returns nil when the
// field is not bound to a table.
func (a *Analyzer) AnalyzeField(field *ast.Field, parentType string, fragments ast.FragmentDefinitionList, vars map[string]interface{}) (*domain.QueryTree, error) {
	return a.AnalyzeGroup(FieldGroup{Key: ResponseKey(field), Fields: []*ast.Field{field}}, parentType, fragments, vars)
}

// AnalyzeGroup builds the tree of the top-level fields selected under one
// response key.
func (a *Analyzer) AnalyzeGroup(group FieldGroup, parentType string, fragments ast.FragmentDefinitionList, vars map[string]interface{}) (*domain.QueryTree, error) {
	if len(group.Fields) == 0 {
		return nil, nil
	}
	sc := &scope{fragments: fragments, vars: vars}
	binding, ok := a.schema.Binding(parentType, group.First().Name)
	if !ok || binding.Link == nil {
		return nil, nil
	}
	return a.link(group, parentType, binding, sc)
}

func groupFields(fields []*ast.Field) []FieldGroup {
	var groups []FieldGroup
	index := make(map[string]int)
	for _, field := range fields {
		key := ResponseKey(field)
		if i, ok := index[key]; ok {
			groups[i].Fields = append(groups[i].Fields, field)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, FieldGroup{Key: key, Fields: []*ast.Field{field}})
	}
	return groups
}

// link builds the nested tree of a table-bound field, descending through
// connection edges to their nodes. Arguments come from the first field of
// the group.
func (a *Analyzer) link(group FieldGroup, parentType string, binding *graph.Binding, sc *scope) (*domain.QueryTree, error) {
	field := group.First()
	table, err := a.schema.Registry.Table(binding.Link.Table)
	if err != nil {
		return nil, err
	}
	def := a.fieldDefinition(parentType, field)
	if def == nil {
		return nil, fmt.Errorf("unknown field %s.%s", parentType, field.Name)
	}

	args, err := a.arguments(field, def, sc)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", group.Key, err)
	}

	typeName := def.Type.Name()
	selections := group.SelectionSets()
	if node, ok := a.schema.ConnectionNode(typeName); ok {
		selections = a.NodeSelections(selections, typeName, sc.fragments, sc.vars)
		typeName = node
	}

	tree := &domain.QueryTree{Table: table, Args: args}
	if err := a.fields(tree, typeName, selections, sc); err != nil {
		return nil, err
	}
	return tree, nil
}

// NodeSelections returns the selection sets of every edges.node selected on a
// connection type.
func (a *Analyzer) NodeSelections(sets []ast.SelectionSet, connectionType string, fragments ast.FragmentDefinitionList, vars map[string]interface{}) []ast.SelectionSet {
	edgeType := ""
	if def := a.schema.Definition(connectionType); def != nil {
		if edges := def.Fields.ForName(graph.FieldEdges); edges != nil {
			edgeType = edges.Type.Name()
		}
	}

	var nodes []ast.SelectionSet
	for _, edges := range GroupFields(sets, fragments, connectionType, vars) {
		if edges.First().Name != graph.FieldEdges {
			continue
		}
		for _, node := range GroupFields(edges.SelectionSets(), fragments, edgeType, vars) {
			if node.First().Name == graph.FieldNode {
				nodes = append(nodes, node.SelectionSets()...)
			}
		}
	}
	return nodes
}

func (a *Analyzer) fields(tree *domain.QueryTree, typeName string, selections []ast.SelectionSet, sc *scope) error {
	keys := make(map[string]bool)
	for _, group := range GroupFields(selections, sc.fragments, typeName, sc.vars) {
		name := group.First().Name
		if strings.HasPrefix(name, "__") {
			continue
		}
		binding, ok := a.schema.Binding(typeName, name)
		if !ok {
			continue
		}
		keys[group.Key] = true

		if binding.Link == nil {
			tree.Fields = append(tree.Fields, &domain.QueryField{Column: binding.Column, Selection: group.Key})
			continue
		}
		nested, err := a.link(group, typeName, binding, sc)
		if err != nil {
			return err
		}
		tree.Fields = append(tree.Fields, &domain.QueryField{
			Column:    binding.Column,
			Target:    binding.Link.Target,
			Selection: group.Key,
			Nested:    nested,
			List:      binding.Link.List,
		})
	}

	for _, pk := range tree.Table.PrimaryKeys() {
		if selected(tree, pk) {
			continue
		}
		key := pk.Name
		for keys[key] {
			key += "$"
		}
		keys[key] = true
		tree.Fields = append(tree.Fields, &domain.QueryField{Column: pk, Selection: key, Implicit: true})
	}

	sort.SliceStable(tree.Fields, func(i, j int) bool {
		return primaryLeaf(tree.Fields[i]) && !primaryLeaf(tree.Fields[j])
	})
	return nil
}

func selected(tree *domain.QueryTree, column *schemadomain.Column) bool {
	for _, f := range tree.Fields {
		if !f.IsLink() && f.Column == column {
			return true
		}
	}
	return false
}

func primaryLeaf(f *domain.QueryField) bool {
	return !f.IsLink() && f.Column.Primary
}

func (a *Analyzer) fieldDefinition(parentType string, field *ast.Field) *ast.FieldDefinition {
	if field.Definition != nil {
		return field.Definition
	}
	def := a.schema.Definition(parentType)
	if def == nil {
		return nil
	}
	return def.Fields.ForName(field.Name)
}

func (a *Analyzer) arguments(field *ast.Field, def *ast.FieldDefinition, sc *scope) (domain.Args, error) {
	var args domain.Args
	for _, argDef := range def.Arguments {
		var raw *ast.Value
		if arg := field.Arguments.ForName(argDef.Name); arg != nil {
			raw = arg.Value
		} else if argDef.DefaultValue != nil {
			raw = argDef.DefaultValue
		} else {
			continue
		}

		value, err := ValueOf(raw, sc.vars)
		if err != nil {
			return args, err
		}
		if value == nil {
			continue
		}

		switch argDef.Name {
		case "where":
			if args.Where, err = domain.ParseWhere(value); err != nil {
				return args, err
			}
		case "order":
			if args.Order, err = domain.ParseOrder(value); err != nil {
				return args, err
			}
		case "first", "last":
			n, err := toInt(value)
			if err != nil {
				return args, err
			}
			if argDef.Name == "first" {
				args.Page.First = &n
			} else {
				args.Page.Last = &n
			}
		case "after", "before":
			s, ok := value.(string)
			if !ok {
				return args, fmt.Errorf("%w: %s expects a cursor", domain.ErrInvalidArgument, argDef.Name)
			}
			if argDef.Name == "after" {
				args.Page.After = &s
			} else {
				args.Page.Before = &s
			}
		}
	}
	return args, nil
}
