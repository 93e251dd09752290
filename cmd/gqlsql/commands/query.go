package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/debug"
	"github.com/satishbabariya/gqlsql/internal/service"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(app *App) *cobra.Command {
	var (
		flags requestFlags
		url   string
	)

	cmd := &cobra.Command{
		Use:   "query <query.graphql>",
		Short: "Run a query against the configured database",
		Long:  "Execute a GraphQL query document against the configured database and print the JSON response.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			flags.apply(cfg)
			if url != "" {
				cfg.Database.URL = url
			}

			c, err := app.Container()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := c.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer c.Close(ctx)

			resp := c.GraphQLService().Execute(ctx, req)
			if err := writeResponse(cmd, resp); err != nil {
				return err
			}
			if resp.Data == nil {
				return errors.New("query failed")
			}
			if len(resp.Errors) > 0 {
				debug.Warn("query completed with errors", "errors", len(resp.Errors))
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&url, "url", "", "Database URL (overrides config)")

	return cmd
}

func writeResponse(cmd *cobra.Command, resp *service.Response) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
