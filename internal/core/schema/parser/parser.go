// Package parser reads table schema files into schema metadata.
//
// A schema file declares tables and their columns:
//
//	table customer "Customers" {
//	  id    int    primary
//	  name  string not null "Customer name"
//	  logo  blob
//	}
//
//	table `order lines` {
//	  id          int primary
//	  customer_id int not null references customer.id
//	}
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/afero"

	"github.com/satishbabariya/gqlsql/internal/core/schema"
	"github.com/satishbabariya/gqlsql/internal/core/schema/domain"
)

// RawFile is the parse tree of a schema file.
type RawFile struct {
	Pos    lexer.Position
	Tables []*RawTable `parser:"@@*"`
}

// RawTable is a table declaration.
type RawTable struct {
	Pos         lexer.Position
	Name        string       `parser:"\"table\" (@Ident | @QuotedIdent)"`
	Description *string      `parser:"@String?"`
	Columns     []*RawColumn `parser:"\"{\" @@* \"}\""`
}

// RawColumn is a column declaration.
type RawColumn struct {
	Pos       lexer.Position
	Name      string         `parser:"(@Ident | @QuotedIdent)"`
	Type      string         `parser:"@Ident"`
	Modifiers []*RawModifier `parser:"@@*"`
}

// RawModifier is one of the optional column modifiers. Modifiers may appear in
// any order.
type RawModifier struct {
	Primary     bool          `parser:"  @\"primary\""`
	NotNull     bool          `parser:"| @(\"not\" \"null\")"`
	Reference   *RawReference `parser:"| \"references\" @@"`
	Description *string       `parser:"| @String"`
}

// RawReference names the column a link column equals.
type RawReference struct {
	Table  string `parser:"(@Ident | @QuotedIdent) \".\""`
	Column string `parser:"(@Ident | @QuotedIdent)"`
}

var parser = participle.MustBuild[RawFile](
	participle.Lexer(SchemaLexer),
	participle.Elide("Whitespace", "Comment", "MultiLineComment"),
	participle.Unquote("String", "QuotedIdent"),
	participle.UseLookahead(4),
)

// Parse parses a schema file from an io.Reader.
func Parse(filename string, r io.Reader) ([]*domain.Table, error) {
	raw, err := parser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return convert(raw)
}

// ParseString parses a schema file from a string.
func ParseString(filename, input string) ([]*domain.Table, error) {
	return Parse(filename, strings.NewReader(input))
}

// ParseFile parses the schema file at path on fs.
func ParseFile(fs afero.Fs, path string) ([]*domain.Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()

	return Parse(path, f)
}

// LoadRegistry parses the schema file at path and indexes it.
func LoadRegistry(fs afero.Fs, path string) (*schema.MetadataRegistry, error) {
	tables, err := ParseFile(fs, path)
	if err != nil {
		return nil, err
	}
	registry, err := schema.NewMetadataRegistry(tables)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return registry, nil
}

func convert(raw *RawFile) ([]*domain.Table, error) {
	tables := make([]*domain.Table, 0, len(raw.Tables))
	for _, rt := range raw.Tables {
		table := &domain.Table{
			ID:           domain.TableID(rt.Name),
			OriginalName: rt.Name,
		}
		if rt.Description != nil {
			table.Description = *rt.Description
		}

		for _, rc := range rt.Columns {
			fieldType, err := domain.ParseFieldType(rc.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", rc.Pos, err)
			}
			column := &domain.Column{
				OriginalName: rc.Name,
				Type:         fieldType,
			}
			for _, m := range rc.Modifiers {
				switch {
				case m.Primary:
					column.Primary = true
					column.NonNull = true
				case m.NotNull:
					column.NonNull = true
				case m.Reference != nil:
					target := domain.TableID(m.Reference.Table)
					column.Ref = &domain.Reference{
						Table:  target,
						Column: domain.NewColumnID(target, m.Reference.Column),
					}
				case m.Description != nil:
					column.Description = *m.Description
				}
			}
			table.Columns = append(table.Columns, column)
		}

		tables = append(tables, table)
	}
	return tables, nil
}
