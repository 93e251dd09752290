// Package commands implements CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/config"
	"github.com/satishbabariya/gqlsql/internal/debug"
	"github.com/satishbabariya/gqlsql/internal/ui"
	"github.com/satishbabariya/gqlsql/internal/utils/container"
)

// App carries the global flags and the loaded configuration.
type App struct {
	ConfigPath string
	Debug      bool

	cfg *config.Config
}

// Config returns the configuration loaded by the root command.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Container builds the services for the current configuration.
func (a *App) Container() (*container.Container, error) {
	c, err := container.NewContainer(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return c, nil
}

// NewRootCommand creates the gqlsql command with all subcommands.
func NewRootCommand() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "gqlsql",
		Short:         "Compile GraphQL queries into SQL",
		Long:          "gqlsql exposes relational tables as a GraphQL schema and answers each query with one SQL statement per top-level field.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			ui.Err = cmd.ErrOrStderr()

			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			app.cfg = cfg
			debug.Init(app.Debug || cfg.Debug)
			if cfg.File != "" {
				debug.Debug("loaded config", "file", cfg.File)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default .gqlsql.yaml)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(NewInitCommand(app))
	cmd.AddCommand(NewCompileCommand(app))
	cmd.AddCommand(NewExplainCommand(app))
	cmd.AddCommand(NewQueryCommand(app))
	cmd.AddCommand(NewServeCommand(app))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
