package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SchemaLexer defines the token types of the table schema language.
var SchemaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "MultiLineComment", Pattern: `/\*(?:[^*]|\*[^/])*\*/`},

	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Dot", Pattern: `\.`},

	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	// Storage names with spaces or punctuation are written between backticks.
	{Name: "QuotedIdent", Pattern: "`[^`]+`"},
	{Name: "Ident", Pattern: `[\p{L}\p{N}_$][\p{L}\p{N}_$]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})
