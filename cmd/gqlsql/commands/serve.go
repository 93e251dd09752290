package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/adapters/httpapi"
	"github.com/satishbabariya/gqlsql/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL endpoint over HTTP",
		Long:  "Start an HTTP server answering GraphQL queries on /graphql and blob downloads on the configured blobs path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			c, err := app.Container()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer c.Close(ctx)

			ui.PrintSuccess("serving %s on %s", cfg.Schema.Path, cfg.Server.Addr)
			return httpapi.Serve(ctx, httpapi.NewServer(cfg.Server.Addr, c.Handler()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}
