package dialect

import (
	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
)

// Firebird returns the Firebird dialect. Text operators use CONTAINING and
// STARTING WITH, which need no pattern escaping.
func Firebird() domain.Dialect {
	return &sqlDialect{
		name:     "firebird",
		quote:    '"',
		dateCast: castAs("TIMESTAMP"),
		boolean:  upperBoolean,
		match:    firebirdMatch,
	}
}

func firebirdMatch(d *sqlDialect, op domain.FilterOperator, expr string, s string) (string, error) {
	literal := d.escapeString(s)
	switch op {
	case domain.Contains:
		return expr + " CONTAINING " + literal, nil
	case domain.Begins:
		return expr + " STARTING WITH " + literal, nil
	default:
		return "REVERSE(" + expr + ") STARTING WITH REVERSE(" + literal + ")", nil
	}
}
