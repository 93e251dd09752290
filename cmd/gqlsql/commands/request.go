package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/config"
	"github.com/satishbabariya/gqlsql/internal/service"
)

// requestFlags are shared by the commands that take a query file.
type requestFlags struct {
	schema    string
	dialect   string
	vars      string
	operation string
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.schema, "schema", "", "Path to schema file (overrides config)")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "SQL dialect: firebird, postgres, mysql or sqlite")
	cmd.Flags().StringVar(&f.vars, "vars", "", "Variables as a JSON object, or @file to read them from a file")
	cmd.Flags().StringVar(&f.operation, "operation", "", "Operation to run when the document has several")
}

// apply copies the flags that override configuration into cfg.
func (f *requestFlags) apply(cfg *config.Config) {
	if f.schema != "" {
		cfg.Schema.Path = f.schema
	}
	if f.dialect != "" {
		cfg.Compiler.Dialect = f.dialect
	}
}

// request reads the query document at path ("-" reads stdin) and the
// variables.
func (f *requestFlags) request(cmd *cobra.Command, path string) (service.Request, error) {
	query, err := readInput(cmd, path)
	if err != nil {
		return service.Request{}, fmt.Errorf("failed to read query: %w", err)
	}

	req := service.Request{Query: query, OperationName: f.operation}
	if f.vars == "" {
		return req, nil
	}

	raw := f.vars
	if name, ok := strings.CutPrefix(raw, "@"); ok {
		raw, err = readInput(cmd, name)
		if err != nil {
			return service.Request{}, fmt.Errorf("failed to read variables: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
		return service.Request{}, fmt.Errorf("invalid variables: %w", err)
	}
	return req, nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := afero.ReadFile(config.AppFs, path)
	return string(b), err
}
