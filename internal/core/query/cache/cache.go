// Package cache keeps validated query documents between requests.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vektah/gqlparser/v2/ast"
)

// Stats represents cache statistics.
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

// DocumentCache is an LRU of validated documents keyed by the hash of the
// query text. A nil *DocumentCache caches nothing.
//
// Cached documents are shared between requests and must be treated as
// read-only.
type DocumentCache struct {
	lru    *expirable.LRU[string, *ast.QueryDocument]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewDocumentCache creates a cache holding at most size documents, each for
// at most ttl (zero keeps entries until they are evicted). It returns nil
// when size is not positive.
func NewDocumentCache(size int, ttl time.Duration) *DocumentCache {
	if size <= 0 {
		return nil
	}
	return &DocumentCache{
		lru: expirable.NewLRU[string, *ast.QueryDocument](size, nil, ttl),
	}
}

// Key returns the cache key of a query text.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// Get returns the document cached for query.
func (c *DocumentCache) Get(query string) (*ast.QueryDocument, bool) {
	if c == nil {
		return nil, false
	}
	doc, ok := c.lru.Get(Key(query))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return doc, ok
}

// Add caches the document of query.
func (c *DocumentCache) Add(query string, doc *ast.QueryDocument) {
	if c == nil {
		return
	}
	c.lru.Add(Key(query), doc)
}

// Purge drops every entry. Documents validated against an old schema must
// not outlive it.
func (c *DocumentCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// Stats returns cache statistics.
func (c *DocumentCache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	s := Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
