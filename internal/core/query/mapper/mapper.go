// Package mapper rebuilds nested result objects from flat joined rows.
package mapper

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// Hydrator folds the rows of one compiled statement back into the nested
// shape the statement was compiled from.
type Hydrator struct{}

// NewHydrator creates a new hydrator.
func NewHydrator() *Hydrator {
	return &Hydrator{}
}

// Hydrate groups rows by the primary-key aliases of each shape level, keeping
// the order in which groups are first seen. Leaves are read from the first row
// of a group and nested fields are hydrated from the group's rows. A group
// whose key values are all null comes from an unmatched LEFT JOIN and is
// dropped. Levels without primary keys group by all of their leaves.
func (h *Hydrator) Hydrate(rows []map[string]interface{}, shape *domain.OutputShape) []map[string]interface{} {
	objects := make([]map[string]interface{}, 0)
	if shape == nil {
		return objects
	}

	keys := shape.PrimaryColumns()
	if len(keys) == 0 {
		keys = shape.LeafColumns()
	}

	type group struct {
		rows []map[string]interface{}
	}
	var order []string
	groups := make(map[string]*group)

	for _, row := range rows {
		key, ok := groupKey(row, keys)
		if !ok {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	for _, key := range order {
		g := groups[key]
		objects = append(objects, h.object(g.rows, shape))
	}
	return objects
}

func (h *Hydrator) object(rows []map[string]interface{}, shape *domain.OutputShape) map[string]interface{} {
	first := rows[0]
	obj := make(map[string]interface{}, len(shape.Fields))
	for _, field := range shape.Fields {
		if field.Nested == nil {
			obj[field.Name] = first[field.Column]
			continue
		}
		children := h.Hydrate(rows, field.Nested)
		if field.List {
			obj[field.Name] = children
		} else if len(children) > 0 {
			obj[field.Name] = children[0]
		} else {
			obj[field.Name] = nil
		}
	}
	return obj
}

// groupKey encodes the key values of a row. It reports false when every key
// value is null or absent.
func groupKey(row map[string]interface{}, keys []string) (string, bool) {
	var sb strings.Builder
	present := false
	for i, k := range keys {
		v := row[k]
		if v != nil {
			present = true
		}
		if i > 0 {
			sb.WriteByte(0)
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		fmt.Fprintf(&sb, "%T=%v", v, v)
	}
	return sb.String(), present
}
