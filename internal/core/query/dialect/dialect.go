// Package dialect implements the SQL dialect strategies the compiler renders
// identifiers, literals and filter operators with.
package dialect

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// TimestampLayout is the layout of date literals.
const TimestampLayout = "2006-01-02 15:04:05.000"

// likeEscape is the escape character of LIKE patterns.
const likeEscape = '!'

// textMatcher renders CONTAINS, BEGINS and ENDS for a column expression and
// an already-escaped literal or raw pattern text.
type textMatcher func(d *sqlDialect, op domain.FilterOperator, expr string, text string) (string, error)

// sqlDialect is the table-driven implementation shared by every backend.
type sqlDialect struct {
	name     string
	quote    byte
	dateCast func(expr string) string
	// castLiterals applies dateCast to the compared literal as well. Backends
	// that compare dates as text need both sides normalized.
	castLiterals bool
	boolean      func(v bool) string
	backslash    bool
	match        textMatcher
}

// Name returns the dialect name.
func (d *sqlDialect) Name() string {
	return d.name
}

// Quote quotes an identifier, doubling embedded quote characters.
func (d *sqlDialect) Quote(identifier string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(identifier, q, q+q) + q
}

// Escape renders a literal value.
func (d *sqlDialect) Escape(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return d.escapeString(v), nil
	case []byte:
		return d.escapeString(string(v)), nil
	case bool:
		return d.boolean(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return "", fmt.Errorf("%w: malformed number %q", domain.ErrInvalidArgument, v.String())
		}
		return v.String(), nil
	case time.Time:
		return d.escapeString(v.Format(TimestampLayout)), nil
	default:
		return "", fmt.Errorf("%w: cannot render %T as a literal", domain.ErrInvalidArgument, value)
	}
}

func (d *sqlDialect) escapeString(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if d.backslash {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + s + "'"
}

// RenderCondition renders a leaf filter condition.
func (d *sqlDialect) RenderCondition(op domain.FilterOperator, target domain.ConditionTarget, value interface{}, hasValue bool) (string, error) {
	expr := target.Expr
	isDate := target.Type == schemadomain.TypeDate && d.dateCast != nil
	if isDate {
		expr = d.dateCast(expr)
	}
	literal := func(value interface{}) (string, error) {
		lit, err := d.Escape(value)
		if err != nil {
			return "", err
		}
		if isDate && d.castLiterals {
			lit = d.dateCast(lit)
		}
		return lit, nil
	}

	if op == domain.IsEmpty {
		return expr + " = ''", nil
	}
	if !hasValue {
		return "", nil
	}

	switch op {
	case domain.Equals:
		if value == nil {
			return expr + " IS NULL", nil
		}
		lit, err := literal(value)
		if err != nil {
			return "", err
		}
		return expr + " = " + lit, nil
	case domain.Greater, domain.Less:
		lit, err := literal(value)
		if err != nil {
			return "", err
		}
		if op == domain.Greater {
			return expr + " > " + lit, nil
		}
		return expr + " < " + lit, nil
	case domain.Contains, domain.Begins, domain.Ends:
		if value == nil {
			return "", nil
		}
		return d.match(d, op, expr, text(value))
	default:
		return "", nil
	}
}

func text(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// likeMatch renders text operators with LIKE patterns.
func likeMatch(d *sqlDialect, op domain.FilterOperator, expr string, s string) (string, error) {
	pattern := escapeLike(s)
	switch op {
	case domain.Contains:
		pattern = "%" + pattern + "%"
	case domain.Begins:
		pattern = pattern + "%"
	case domain.Ends:
		pattern = "%" + pattern
	}
	return fmt.Sprintf("%s LIKE %s ESCAPE '%c'", expr, d.escapeString(pattern), likeEscape), nil
}

func escapeLike(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch == likeEscape || ch == '%' || ch == '_' {
			b.WriteRune(likeEscape)
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func castAs(sqlType string) func(string) string {
	return func(expr string) string {
		return "CAST(" + expr + " AS " + sqlType + ")"
	}
}

func upperBoolean(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// ForProvider returns the dialect of a database provider.
func ForProvider(provider string) (domain.Dialect, error) {
	switch strings.ToLower(provider) {
	case "firebird", "firebirdsql":
		return Firebird(), nil
	case "postgres", "postgresql":
		return Postgres(), nil
	case "mysql", "mariadb":
		return MySQL(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", provider)
	}
}
