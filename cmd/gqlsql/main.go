// Package main is the entry point for the gqlsql CLI.
package main

import (
	"os"

	"github.com/satishbabariya/gqlsql/cmd/gqlsql/commands"
	"github.com/satishbabariya/gqlsql/internal/ui"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
