package graph

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

const cursorPrefix = "arrayconnection:"

// Edge is one element of a connection.
type Edge struct {
	Node   map[string]interface{}
	Cursor string
}

// PageInfo describes the page a connection holds.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Connection is a page of hydrated objects.
type Connection struct {
	Edges    []Edge
	PageInfo PageInfo
	// Total is the number of objects before slicing.
	Total int
}

// OffsetToCursor encodes an array offset as an opaque cursor.
func OffsetToCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// CursorToOffset decodes a cursor produced by OffsetToCursor.
func CursorToOffset(cursor string) (int, bool) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, false
	}
	s := string(raw)
	if !strings.HasPrefix(s, cursorPrefix) {
		return 0, false
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(s, cursorPrefix))
	if err != nil {
		return 0, false
	}
	return offset, true
}

func offsetWithDefault(cursor *string, fallback int) int {
	if cursor == nil {
		return fallback
	}
	offset, ok := CursorToOffset(*cursor)
	if !ok {
		return fallback
	}
	return offset
}

// Paginate slices items with relay array-connection semantics: after and
// before bound the window, first keeps its head and last keeps its tail.
func Paginate(items []map[string]interface{}, args domain.PageArgs) (*Connection, error) {
	length := len(items)
	beforeOffset := offsetWithDefault(args.Before, length)
	afterOffset := offsetWithDefault(args.After, -1)

	start := max(afterOffset, -1) + 1
	end := min(beforeOffset, length)

	if args.First != nil {
		if *args.First < 0 {
			return nil, fmt.Errorf("%w: first must be non-negative", domain.ErrInvalidArgument)
		}
		end = min(end, start+*args.First)
	}
	if args.Last != nil {
		if *args.Last < 0 {
			return nil, fmt.Errorf("%w: last must be non-negative", domain.ErrInvalidArgument)
		}
		start = max(start, end-*args.Last)
	}

	conn := &Connection{Total: length, Edges: make([]Edge, 0)}
	for i := max(start, 0); i < end && i < length; i++ {
		conn.Edges = append(conn.Edges, Edge{Node: items[i], Cursor: OffsetToCursor(i)})
	}

	if n := len(conn.Edges); n > 0 {
		first, last := conn.Edges[0].Cursor, conn.Edges[n-1].Cursor
		conn.PageInfo.StartCursor = &first
		conn.PageInfo.EndCursor = &last
	}

	lowerBound := 0
	if args.After != nil {
		lowerBound = afterOffset + 1
	}
	upperBound := length
	if args.Before != nil {
		upperBound = beforeOffset
	}
	if args.Last != nil {
		conn.PageInfo.HasPreviousPage = start > lowerBound
	}
	if args.First != nil {
		conn.PageInfo.HasNextPage = end < upperBound
	}
	return conn, nil
}
