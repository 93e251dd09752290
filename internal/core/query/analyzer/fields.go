package analyzer

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// CollectFields flattens a selection set for the given object type. Fragment
// spreads and inline fragments are inlined recursively when their type
// condition matches typeName, and fields excluded by @skip or @include are
// dropped.
func CollectFields(selections ast.SelectionSet, fragments ast.FragmentDefinitionList, typeName string, vars map[string]interface{}) []*ast.Field {
	var fields []*ast.Field
	for _, selection := range selections {
		switch sel := selection.(type) {
		case *ast.Field:
			if included(sel.Directives, vars) {
				fields = append(fields, sel)
			}
		case *ast.InlineFragment:
			if !included(sel.Directives, vars) || !matches(sel.TypeCondition, typeName) {
				continue
			}
			fields = append(fields, CollectFields(sel.SelectionSet, fragments, typeName, vars)...)
		case *ast.FragmentSpread:
			if !included(sel.Directives, vars) {
				continue
			}
			fragment := sel.Definition
			if fragment == nil {
				fragment = fragments.ForName(sel.Name)
			}
			if fragment == nil || !matches(fragment.TypeCondition, typeName) {
				continue
			}
			fields = append(fields, CollectFields(fragment.SelectionSet, fragments, typeName, vars)...)
		}
	}
	return fields
}

// FieldGroup holds the fields selected under one response key. GraphQL
// merges them into a single result entry.
type FieldGroup struct {
	Key    string
	Fields []*ast.Field
}

// First returns the field that names the group and carries its arguments.
func (g FieldGroup) First() *ast.Field {
	return g.Fields[0]
}

// SelectionSets returns the sub-selections of every field of the group.
func (g FieldGroup) SelectionSets() []ast.SelectionSet {
	sets := make([]ast.SelectionSet, 0, len(g.Fields))
	for _, f := range g.Fields {
		sets = append(sets, f.SelectionSet)
	}
	return sets
}

// GroupFields collects the fields of several selection sets and groups them
// by response key, in first-seen order.
func GroupFields(sets []ast.SelectionSet, fragments ast.FragmentDefinitionList, typeName string, vars map[string]interface{}) []FieldGroup {
	var groups []FieldGroup
	index := make(map[string]int)
	for _, set := range sets {
		for _, field := range CollectFields(set, fragments, typeName, vars) {
			key := ResponseKey(field)
			if i, ok := index[key]; ok {
				groups[i].Fields = append(groups[i].Fields, field)
				continue
			}
			index[key] = len(groups)
			groups = append(groups, FieldGroup{Key: key, Fields: []*ast.Field{field}})
		}
	}
	return groups
}

// ResponseKey returns the key a field's value is reported under.
func ResponseKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}

func matches(condition, typeName string) bool {
	return condition == "" || condition == typeName
}

func included(directives ast.DirectiveList, vars map[string]interface{}) bool {
	if d := directives.ForName("skip"); d != nil && directiveFlag(d, vars) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !directiveFlag(d, vars) {
		return false
	}
	return true
}

func directiveFlag(d *ast.Directive, vars map[string]interface{}) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	value, err := ValueOf(arg.Value, vars)
	if err != nil {
		return false
	}
	flag, _ := value.(bool)
	return flag
}
