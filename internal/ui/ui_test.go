package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := Out, Err
	Out, Err = out, errOut
	t.Cleanup(func() { Out, Err = prevOut, prevErr })
	return out, errOut
}

func TestHighlightSQL_NoColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	sql := `SELECT "c"."id" FROM customer "c" WHERE "c"."name" = 'it''s'`
	assert.Equal(t, sql, HighlightSQL(sql))
}

func TestHighlightSQL_Color(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	out := HighlightSQL(`SELECT "from" FROM t WHERE x = 'a b' AND y > 10`)

	assert.Contains(t, out, keywordColor.Sprint("SELECT"))
	assert.Contains(t, out, keywordColor.Sprint("AND"))
	assert.Contains(t, out, stringColor.Sprint("'a b'"))
	assert.Contains(t, out, numberColor.Sprint("10"))
	assert.Contains(t, out, ` "from" `)
}

func TestClosingQuote(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`'abc' rest`, 5},
		{`'it''s' x`, 7},
		{`"id"`, 4},
		{`'open`, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, closingQuote(tt.in, 0), tt.in)
	}
}

func TestPrinters(t *testing.T) {
	out, errOut := capture(t)

	PrintSuccess("compiled %d queries", 2)
	PrintInfo("schema %s", "shop.gqlsql")
	PrintError("boom")
	PrintWarning("careful")

	assert.Contains(t, out.String(), "compiled 2 queries")
	assert.Contains(t, out.String(), "schema shop.gqlsql")
	assert.Contains(t, errOut.String(), "boom")
	assert.Contains(t, errOut.String(), "careful")
}

func TestPrintTable(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, PrintTable([]string{"Alias", "Table"}, [][]string{{"customer", "CUSTOMER"}}))
	assert.Contains(t, out.String(), "Alias")
	assert.Contains(t, out.String(), "CUSTOMER")
}

func TestPrintMarkdown(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, PrintMarkdown("# customers\n\nthree joined tables\n"))
	assert.True(t, strings.Contains(out.String(), "customers"))
	assert.Contains(t, out.String(), "joined")
}
