package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/ui"
	"github.com/satishbabariya/gqlsql/internal/watch"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(app *App) *cobra.Command {
	var (
		flags     requestFlags
		minify    bool
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "compile <query.graphql>",
		Short: "Print the SQL of every top-level field",
		Long:  "Compile a GraphQL query document into one SQL statement per top-level field without touching the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			flags.apply(cfg)
			if cmd.Flags().Changed("minify") {
				cfg.Compiler.Minify = minify
			}

			compile := func() error {
				return runCompile(cmd, app, &flags, args[0])
			}
			if !watchMode {
				return compile()
			}
			return runWatch(cmd, []string{args[0], cfg.Schema.Path}, compile)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&minify, "minify", false, "Print SQL on a single line")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Recompile when the query or schema changes")

	return cmd
}

func runCompile(cmd *cobra.Command, app *App, flags *requestFlags, path string) error {
	c, err := app.Container()
	if err != nil {
		return err
	}

	req, err := flags.request(cmd, path)
	if err != nil {
		return err
	}

	plans, errs := c.GraphQLService().Plan(cmd.Context(), req)
	if len(errs) > 0 {
		return errs
	}

	failed := 0
	for _, plan := range plans {
		ui.PrintSection(plan.Key)
		if plan.Err != nil {
			failed++
			ui.PrintError("%v", plan.Err)
			continue
		}
		fmt.Fprintln(ui.Out, ui.HighlightSQL(plan.Query.SQL))
		fmt.Fprintln(ui.Out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fields failed to compile", failed, len(plans))
	}
	return nil
}

// runWatch runs fn now and after every change to files until interrupted.
// Errors after the first run are printed and do not stop watching.
func runWatch(cmd *cobra.Command, files []string, fn func() error) error {
	w, err := watch.NewWatcher(files, fn, watch.WithErrorHandler(func(err error) {
		ui.PrintError("%v", err)
	}))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		return err
	}
	ui.PrintInfo("watching %d files, press Ctrl+C to stop", len(files))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
