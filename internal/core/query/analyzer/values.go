package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// ValueOf converts a literal into a Go value, resolving variables. Input
// objects become domain.Object values that keep their written key order.
// Object fields and list items bound to a variable the request did not
// provide are omitted.
func ValueOf(v *ast.Value, vars map[string]interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Kind {
	case ast.Variable:
		return vars[v.Raw], nil
	case ast.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return n, nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return f, nil
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw, nil
	case ast.BooleanValue:
		return v.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.ListValue:
		items := make([]interface{}, 0, len(v.Children))
		for _, child := range v.Children {
			if unset(child.Value, vars) {
				continue
			}
			item, err := ValueOf(child.Value, vars)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case ast.ObjectValue:
		obj := make(domain.Object, 0, len(v.Children))
		for _, child := range v.Children {
			if unset(child.Value, vars) {
				continue
			}
			item, err := ValueOf(child.Value, vars)
			if err != nil {
				return nil, err
			}
			obj = append(obj, domain.Entry{Key: child.Name, Value: item})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value kind %d", domain.ErrInvalidArgument, v.Kind)
	}
}

// unset reports whether v is a variable missing from vars.
func unset(v *ast.Value, vars map[string]interface{}) bool {
	if v == nil || v.Kind != ast.Variable {
		return false
	}
	_, ok := vars[v.Raw]
	return !ok
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: %v is not an integer", domain.ErrInvalidArgument, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: expected an integer, got %T", domain.ErrInvalidArgument, value)
	}
}
