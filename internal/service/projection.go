package service

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/satishbabariya/gqlsql/internal/core/graph"
	"github.com/satishbabariya/gqlsql/internal/core/query/analyzer"
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
	"github.com/satishbabariya/gqlsql/internal/debug"
)

// projection shapes hydrated objects into the response of a selection set.
type projection struct {
	service   *GraphQLService
	fragments ast.FragmentDefinitionList
	vars      map[string]interface{}
}

func (p *projection) groups(sets []ast.SelectionSet, typeName string) []analyzer.FieldGroup {
	return analyzer.GroupFields(sets, p.fragments, typeName, p.vars)
}

// connection paginates items and projects them as connType.
func (p *projection) connection(items []map[string]interface{}, tree *domain.QueryTree, connType string, sets []ast.SelectionSet) (domain.Object, error) {
	conn, err := graph.Paginate(items, tree.Args.Page)
	if err != nil {
		return nil, err
	}
	nodeType, _ := p.service.schema.ConnectionNode(connType)
	edgeType := fieldTypeName(p.service.schema.Definition(connType), graph.FieldEdges)

	groups := p.groups(sets, connType)
	out := make(domain.Object, 0, len(groups))
	for _, g := range groups {
		var value interface{}
		switch g.First().Name {
		case "__typename":
			value = connType
		case graph.FieldTotal:
			value = conn.Total
		case graph.FieldPageInfo:
			value = p.pageInfo(conn.PageInfo, g.SelectionSets())
		case graph.FieldEdges:
			edges := make([]interface{}, 0, len(conn.Edges))
			for _, edge := range conn.Edges {
				obj, err := p.edge(edge, tree, edgeType, nodeType, g.SelectionSets())
				if err != nil {
					return nil, err
				}
				edges = append(edges, obj)
			}
			value = edges
		}
		out = append(out, domain.Entry{Key: g.Key, Value: value})
	}
	return out, nil
}

func (p *projection) edge(edge graph.Edge, tree *domain.QueryTree, edgeType, nodeType string, sets []ast.SelectionSet) (domain.Object, error) {
	groups := p.groups(sets, edgeType)
	out := make(domain.Object, 0, len(groups))
	for _, g := range groups {
		var value interface{}
		switch g.First().Name {
		case "__typename":
			value = edgeType
		case graph.FieldCursor:
			value = edge.Cursor
		case graph.FieldNode:
			node, err := p.object(edge.Node, tree, nodeType, g.SelectionSets())
			if err != nil {
				return nil, err
			}
			value = node
		}
		out = append(out, domain.Entry{Key: g.Key, Value: value})
	}
	return out, nil
}

func (p *projection) pageInfo(info graph.PageInfo, sets []ast.SelectionSet) domain.Object {
	groups := p.groups(sets, graph.PageInfoTypeName)
	out := make(domain.Object, 0, len(groups))
	for _, g := range groups {
		var value interface{}
		switch g.First().Name {
		case "__typename":
			value = graph.PageInfoTypeName
		case "hasNextPage":
			value = info.HasNextPage
		case "hasPreviousPage":
			value = info.HasPreviousPage
		case "startCursor":
			value = info.StartCursor
		case "endCursor":
			value = info.EndCursor
		}
		out = append(out, domain.Entry{Key: g.Key, Value: value})
	}
	return out
}

// object projects one hydrated object of typeName. Values are read under the
// response keys the tree was analyzed with.
func (p *projection) object(obj map[string]interface{}, tree *domain.QueryTree, typeName string, sets []ast.SelectionSet) (domain.Object, error) {
	if obj == nil || tree == nil {
		return nil, nil
	}
	schema := p.service.schema

	groups := p.groups(sets, typeName)
	out := make(domain.Object, 0, len(groups))
	for _, g := range groups {
		name := g.First().Name
		entry := domain.Entry{Key: g.Key}
		if name == "__typename" {
			entry.Value = typeName
			out = append(out, entry)
			continue
		}

		binding, ok := schema.Binding(typeName, name)
		switch {
		case !ok:
		case binding.Link == nil:
			entry.Value = p.leaf(obj, tree, binding.Column, g.Key)
		default:
			field := treeField(tree, g.Key)
			if field == nil || field.Nested == nil {
				break
			}
			childType := fieldTypeName(schema.Definition(typeName), name)
			var err error
			if binding.Link.List {
				items, _ := obj[g.Key].([]map[string]interface{})
				entry.Value, err = p.connection(items, field.Nested, childType, g.SelectionSets())
			} else {
				child, _ := obj[g.Key].(map[string]interface{})
				entry.Value, err = p.object(child, field.Nested, childType, g.SelectionSets())
			}
			if err != nil {
				return nil, err
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (p *projection) leaf(obj map[string]interface{}, tree *domain.QueryTree, column *schemadomain.Column, key string) interface{} {
	value := obj[key]
	if value == nil {
		return nil
	}
	if column.Type == schemadomain.TypeBlob {
		return p.blobLink(obj, tree, column)
	}
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}

// blobLink returns the URL of a BLOB cell. It is null for tables without a
// primary key, whose rows cannot be addressed.
func (p *projection) blobLink(obj map[string]interface{}, tree *domain.QueryTree, column *schemadomain.Column) interface{} {
	if p.service.blobs == nil {
		return nil
	}
	key := make(map[string]interface{})
	for _, f := range tree.Fields {
		if !f.IsLink() && f.Column.Primary {
			key[f.Column.Name] = obj[f.Selection]
		}
	}
	if len(key) == 0 {
		return nil
	}

	link, err := p.service.blobs(BlobID{Table: tree.Table.Name, Field: column.Name, Key: key})
	if err != nil {
		debug.Warn("Failed to create blob link", "table", tree.Table.Name, "field", column.Name, "error", err)
		return nil
	}
	return link
}

func treeField(tree *domain.QueryTree, key string) *domain.QueryField {
	for _, f := range tree.Fields {
		if f.Selection == key {
			return f
		}
	}
	return nil
}
