package dialect

import (
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// MySQL returns the MySQL dialect. Backslashes in string literals are doubled.
func MySQL() domain.Dialect {
	return &sqlDialect{
		name:      "mysql",
		quote:     '`',
		dateCast:  castAs("DATETIME"),
		boolean:   upperBoolean,
		backslash: true,
		match:     likeMatch,
	}
}
