package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_MarshalJSON(t *testing.T) {
	obj := Object{
		{Key: "b", Value: 1},
		{Key: "a", Value: Object{{Key: "z", Value: nil}, {Key: "y", Value: []interface{}{"x"}}}},
		{Key: "c", Value: Object(nil)},
	}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"z":null,"y":["x"]},"c":null}`, string(data))

	data, err = json.Marshal(Object{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestEntries(t *testing.T) {
	entries, ok := Entries(map[string]interface{}{"b": 2, "a": 1})
	require.True(t, ok)
	assert.Equal(t, []Entry{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, entries)

	_, ok = Entries("x")
	assert.False(t, ok)

	value, ok := Object{{Key: "k", Value: "v"}}.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestList(t *testing.T) {
	assert.Nil(t, List(nil))
	assert.Equal(t, []interface{}{"a"}, List("a"))
	assert.Equal(t, []interface{}{"a", "b"}, List([]string{"a", "b"}))
}
