package dialect

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	schemadomain "github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

func TestEscape(t *testing.T) {
	fb := Firebird()
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{name: "nil", value: nil, expected: "NULL"},
		{name: "string", value: "O'Brien", expected: "'O''Brien'"},
		{name: "int", value: 42, expected: "42"},
		{name: "int64", value: int64(-7), expected: "-7"},
		{name: "float", value: 7.5, expected: "7.5"},
		{name: "json number", value: json.Number("12.25"), expected: "12.25"},
		{name: "bool", value: true, expected: "TRUE"},
		{name: "time", value: time.Date(2024, 3, 9, 8, 7, 6, 5_000_000, time.UTC), expected: "'2024-03-09 08:07:06.005'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fb.Escape(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := fb.Escape(map[string]interface{}{})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = fb.Escape(json.Number("abc"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"NAME"`, Firebird().Quote("NAME"))
	assert.Equal(t, `"a""b"`, Postgres().Quote(`a"b`))
	assert.Equal(t, "`name`", MySQL().Quote("name"))
	assert.Equal(t, "`a``b`", MySQL().Quote("a`b"))
}

func TestFirebirdConditions(t *testing.T) {
	fb := Firebird()
	name := domain.ConditionTarget{Expr: `"c"."name"`, Type: schemadomain.TypeString}
	created := domain.ConditionTarget{Expr: `"o"."created"`, Type: schemadomain.TypeDate}

	tests := []struct {
		name     string
		op       domain.FilterOperator
		target   domain.ConditionTarget
		value    interface{}
		hasValue bool
		expected string
	}{
		{name: "equals", op: domain.Equals, target: name, value: "A", hasValue: true, expected: `"c"."name" = 'A'`},
		{name: "equals null", op: domain.Equals, target: name, value: nil, hasValue: true, expected: `"c"."name" IS NULL`},
		{name: "contains", op: domain.Contains, target: name, value: "x", hasValue: true, expected: `"c"."name" CONTAINING 'x'`},
		{name: "begins", op: domain.Begins, target: name, value: "x", hasValue: true, expected: `"c"."name" STARTING WITH 'x'`},
		{name: "ends", op: domain.Ends, target: name, value: "x", hasValue: true, expected: `REVERSE("c"."name") STARTING WITH REVERSE('x')`},
		{name: "greater date", op: domain.Greater, target: created, value: "2024-01-01", hasValue: true, expected: `CAST("o"."created" AS TIMESTAMP) > '2024-01-01'`},
		{name: "less", op: domain.Less, target: name, value: 3, hasValue: true, expected: `"c"."name" < 3`},
		{name: "is empty", op: domain.IsEmpty, target: name, expected: `"c"."name" = ''`},
		{name: "missing value", op: domain.Equals, target: name, expected: ""},
		{name: "unknown operator", op: domain.FilterOperator("matches"), target: name, value: "x", hasValue: true, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fb.RenderCondition(tt.op, tt.target, tt.value, tt.hasValue)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLikeConditions(t *testing.T) {
	target := domain.ConditionTarget{Expr: `"c"."name"`, Type: schemadomain.TypeString}

	got, err := Postgres().RenderCondition(domain.Contains, target, "50%_off", true)
	require.NoError(t, err)
	assert.Equal(t, `"c"."name" LIKE '%50!%!_off%' ESCAPE '!'`, got)

	got, err = SQLite().RenderCondition(domain.Begins, target, "it's", true)
	require.NoError(t, err)
	assert.Equal(t, `"c"."name" LIKE 'it''s%' ESCAPE '!'`, got)

	got, err = MySQL().RenderCondition(domain.Ends, domain.ConditionTarget{Expr: "`c`.`name`"}, `a\b`, true)
	require.NoError(t, err)
	assert.Equal(t, "`c`.`name` LIKE '%a\\\\b' ESCAPE '!'", got)

	got, err = SQLite().RenderCondition(domain.Less, domain.ConditionTarget{Expr: `"o"."created"`, Type: schemadomain.TypeDate}, "2024-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, `datetime("o"."created") < datetime('2024-01-01')`, got)
}

func TestForProvider(t *testing.T) {
	for provider, name := range map[string]string{
		"firebird":   "firebird",
		"postgresql": "postgres",
		"mysql":      "mysql",
		"sqlite3":    "sqlite",
	} {
		d, err := ForProvider(provider)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := ForProvider("oracle")
	assert.Error(t, err)
}
