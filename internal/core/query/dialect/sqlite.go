package dialect

import (
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// SQLite returns the SQLite dialect.
func SQLite() domain.Dialect {
	return &sqlDialect{
		name:         "sqlite",
		quote:        '"',
		dateCast:     func(expr string) string { return "datetime(" + expr + ")" },
		castLiterals: true,
		boolean: func(v bool) string {
			if v {
				return "1"
			}
			return "0"
		},
		match: likeMatch,
	}
}
