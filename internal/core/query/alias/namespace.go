// Package alias generates the identifiers a compiled statement uses for its
// table and column references.
package alias

import (
	"regexp"
	"strings"
)

// Kind selects how a name is aliased.
type Kind int

const (
	// KindTable aliases a table reference. Table aliases are unique per namespace.
	KindTable Kind = iota
	// KindColumn aliases a column reference.
	KindColumn
)

// Alphabet is the symbol set of compact aliases.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ#$"

// readableLength is the maximum length of a readable table alias before the
// uniqueness suffix.
const readableLength = 10

var (
	whitespace  = regexp.MustCompile(`\s+`)
	nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Namespace hands out aliases for one compiled statement. It is not safe for
// concurrent use; create one per statement.
type Namespace struct {
	minify  bool
	tables  map[string]struct{}
	columns map[string]string
	symbols *symbolSequence
}

// NewNamespace creates a namespace. With minify set, aliases are drawn from a
// compact symbol sequence; otherwise they are derived from the original names.
func NewNamespace(minify bool) *Namespace {
	return &Namespace{
		minify:  minify,
		tables:  make(map[string]struct{}),
		columns: make(map[string]string),
		symbols: &symbolSequence{},
	}
}

// Minified reports whether the namespace produces compact aliases.
func (n *Namespace) Minified() bool {
	return n.minify
}

// Generate returns the alias for the given name.
//
// Compact mode gives every table a fresh symbol and memoizes column symbols by
// name, so the same column name always yields the same symbol. Readable mode
// returns column names unchanged and sanitizes table names, appending '$'
// until the alias is unused.
func (n *Namespace) Generate(kind Kind, name string) string {
	if n.minify {
		if kind == KindTable {
			return n.nextTable()
		}
		if symbol, ok := n.columns[name]; ok {
			return symbol
		}
		symbol := n.symbols.next()
		n.columns[name] = symbol
		return symbol
	}

	if kind == KindColumn {
		return name
	}

	alias := whitespace.ReplaceAllString(name, "")
	alias = nonAlphaNum.ReplaceAllString(alias, "_")
	if len(alias) > readableLength {
		alias = alias[:readableLength]
	}
	for n.taken(alias) {
		alias += "$"
	}
	n.tables[alias] = struct{}{}
	return alias
}

func (n *Namespace) nextTable() string {
	// The sequence never repeats, so a fresh symbol is unused.
	symbol := n.symbols.next()
	n.tables[symbol] = struct{}{}
	return symbol
}

func (n *Namespace) taken(alias string) bool {
	_, ok := n.tables[alias]
	return ok
}

// symbolSequence enumerates every string over Alphabet ordered by length, then
// lexicographically by alphabet position with the last symbol varying fastest.
type symbolSequence struct {
	digits []int
}

func (s *symbolSequence) next() string {
	s.advance()
	var b strings.Builder
	for _, d := range s.digits {
		b.WriteByte(Alphabet[d])
	}
	return b.String()
}

func (s *symbolSequence) advance() {
	for i := len(s.digits) - 1; i >= 0; i-- {
		s.digits[i]++
		if s.digits[i] < len(Alphabet) {
			return
		}
		s.digits[i] = 0
	}
	s.digits = append([]int{0}, s.digits...)
}
