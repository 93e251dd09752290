package domain

import (
	"fmt"
)

// FilterOperator is a leaf filter operator.
type FilterOperator string

const (
	Equals   FilterOperator = "equals"
	Contains FilterOperator = "contains"
	Begins   FilterOperator = "begins"
	Ends     FilterOperator = "ends"
	Greater  FilterOperator = "greater"
	Less     FilterOperator = "less"
	IsEmpty  FilterOperator = "isEmpty"
)

// Combinator keys of a where object.
const (
	KeyIsNull = "isNull"
	KeyNot    = "not"
	KeyOr     = "or"
	KeyAnd    = "and"
)

// LeafOperators lists the leaf operators in their canonical order.
var LeafOperators = []FilterOperator{Equals, Contains, Begins, Ends, Greater, Less, IsEmpty}

// IsLeafOperator reports whether name is a leaf operator.
func IsLeafOperator(name string) bool {
	for _, op := range LeafOperators {
		if string(op) == name {
			return true
		}
	}
	return false
}

// Where is a parsed filter. Conditions of one level are ANDed together.
type Where struct {
	Leaves []LeafFilter
	IsNull []string
	Not    []*Where
	Or     []*Where
	And    []*Where
	// Unknown lists keys that are neither operators nor combinators.
	Unknown []string
}

// LeafFilter applies one operator to a set of columns.
type LeafFilter struct {
	Operator FilterOperator
	Terms    []FilterTerm
}

// FilterTerm names a column by display name and optionally a value.
type FilterTerm struct {
	Column   string
	Value    interface{}
	HasValue bool
}

// Empty reports whether the filter produces no condition.
func (w *Where) Empty() bool {
	return w == nil || len(w.Leaves) == 0 && len(w.IsNull) == 0 &&
		len(w.Not) == 0 && len(w.Or) == 0 && len(w.And) == 0
}

// ParseWhere parses a where argument. A leaf operator takes a column name, a
// list of column names or an object of column names to values; isNull takes a
// column name or a list of them; not, or and and take lists of where objects.
func ParseWhere(value interface{}) (*Where, error) {
	if value == nil {
		return nil, nil
	}
	entries, ok := Entries(value)
	if !ok {
		return nil, fmt.Errorf("%w: where must be an object, got %T", ErrInvalidArgument, value)
	}

	where := &Where{}
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		switch e.Key {
		case KeyIsNull:
			names, err := columnNames(e.Key, e.Value)
			if err != nil {
				return nil, err
			}
			where.IsNull = append(where.IsNull, names...)
		case KeyNot, KeyOr, KeyAnd:
			var nested []*Where
			for _, item := range List(e.Value) {
				w, err := ParseWhere(item)
				if err != nil {
					return nil, err
				}
				if w != nil {
					nested = append(nested, w)
				}
			}
			switch e.Key {
			case KeyNot:
				where.Not = append(where.Not, nested...)
			case KeyOr:
				where.Or = append(where.Or, nested...)
			default:
				where.And = append(where.And, nested...)
			}
		default:
			if !IsLeafOperator(e.Key) {
				where.Unknown = append(where.Unknown, e.Key)
				continue
			}
			terms, err := filterTerms(e.Key, e.Value)
			if err != nil {
				return nil, err
			}
			if len(terms) > 0 {
				where.Leaves = append(where.Leaves, LeafFilter{Operator: FilterOperator(e.Key), Terms: terms})
			}
		}
	}
	return where, nil
}

func filterTerms(op string, value interface{}) ([]FilterTerm, error) {
	if entries, ok := Entries(value); ok {
		terms := make([]FilterTerm, 0, len(entries))
		for _, e := range entries {
			terms = append(terms, FilterTerm{Column: e.Key, Value: e.Value, HasValue: true})
		}
		return terms, nil
	}

	names, err := columnNames(op, value)
	if err != nil {
		return nil, err
	}
	terms := make([]FilterTerm, 0, len(names))
	for _, name := range names {
		terms = append(terms, FilterTerm{Column: name})
	}
	return terms, nil
}

func columnNames(op string, value interface{}) ([]string, error) {
	items := List(value)
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects column names, got %T", ErrInvalidArgument, op, item)
		}
		names = append(names, name)
	}
	return names, nil
}

// ParseOrder parses an order argument: a list of objects mapping asc or desc
// to a column name.
func ParseOrder(value interface{}) ([]OrderTerm, error) {
	var terms []OrderTerm
	for _, item := range List(value) {
		entries, ok := Entries(item)
		if !ok {
			return nil, fmt.Errorf("%w: order items must be objects, got %T", ErrInvalidArgument, item)
		}
		for _, e := range entries {
			if e.Value == nil {
				continue
			}
			var direction SortDirection
			switch e.Key {
			case "asc":
				direction = Asc
			case "desc":
				direction = Desc
			default:
				return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, e.Key)
			}
			column, ok := e.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a column name, got %T", ErrInvalidArgument, e.Key, e.Value)
			}
			terms = append(terms, OrderTerm{Column: column, Direction: direction})
		}
	}
	return terms, nil
}
