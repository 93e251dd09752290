package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Entry is one key/value pair of an Object.
type Entry struct {
	Key   string
	Value interface{}
}

// Object is an object that keeps the order its keys were written in. Filter
// conditions are rendered in that order and responses are encoded in it.
type Object []Entry

// MarshalJSON encodes the object with its keys in order. A nil Object is
// encoded as null.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value stored under key.
func (o Object) Get(key string) (interface{}, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Entries returns the key/value pairs of an Object or a map. Map keys are
// sorted so that equal inputs produce equal SQL.
func Entries(value interface{}) ([]Entry, bool) {
	switch v := value.(type) {
	case Object:
		return v, true
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Entry{Key: k, Value: v[k]})
		}
		return entries, true
	default:
		return nil, false
	}
}

// List returns value as a list. A non-list value is a list of one, following
// GraphQL input coercion.
func List(value interface{}) []interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items
	default:
		return []interface{}{v}
	}
}
