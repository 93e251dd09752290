package dialect

import (
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// Postgres returns the PostgreSQL dialect.
func Postgres() domain.Dialect {
	return &sqlDialect{
		name:     "postgres",
		quote:    '"',
		dateCast: castAs("TIMESTAMP"),
		boolean:  upperBoolean,
		match:    likeMatch,
	}
}
