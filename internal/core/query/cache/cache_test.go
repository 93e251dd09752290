package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestDocumentCache(t *testing.T) {
	c := NewDocumentCache(2, 0)
	require.NotNil(t, c)

	a, b, d := &ast.QueryDocument{}, &ast.QueryDocument{}, &ast.QueryDocument{}
	c.Add("{ a }", a)
	c.Add("{ b }", b)

	got, ok := c.Get("{ a }")
	assert.True(t, ok)
	assert.Same(t, a, got)

	// "{ b }" is now the least recently used entry.
	c.Add("{ d }", d)
	_, ok = c.Get("{ b }")
	assert.False(t, ok)
	_, ok = c.Get("{ d }")
	assert.True(t, ok)

	assert.Equal(t, Stats{Hits: 2, Misses: 1, Size: 2, HitRate: 2.0 / 3.0}, c.Stats())

	c.Purge()
	assert.Equal(t, 0, c.Stats().Size)
}

func TestDocumentCache_TTL(t *testing.T) {
	c := NewDocumentCache(4, 20*time.Millisecond)
	c.Add("{ a }", &ast.QueryDocument{})

	assert.Eventually(t, func() bool {
		_, ok := c.Get("{ a }")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestDocumentCache_Disabled(t *testing.T) {
	c := NewDocumentCache(0, 0)
	assert.Nil(t, c)

	c.Add("{ a }", &ast.QueryDocument{})
	_, ok := c.Get("{ a }")
	assert.False(t, ok)
	c.Purge()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("{ a }"), Key("{ a }"))
	assert.NotEqual(t, Key("{ a }"), Key("{ b }"))
	assert.Len(t, Key(""), 64)
}
