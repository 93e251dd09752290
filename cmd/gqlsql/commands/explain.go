package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/service"
	"github.com/satishbabariya/gqlsql/internal/ui"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(app *App) *cobra.Command {
	var (
		flags requestFlags
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "explain <query.graphql>",
		Short: "Describe how a query is compiled",
		Long:  "Print a report of the table trees, aliases, joins and SQL produced for each top-level field.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()
			flags.apply(cfg)

			c, err := app.Container()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, args[0])
			if err != nil {
				return err
			}
			plans, errs := c.GraphQLService().Plan(cmd.Context(), req)
			if len(errs) > 0 {
				return errs
			}

			report := explainPlans(plans, c.Compiler().Dialect().Name())
			if raw {
				fmt.Fprint(ui.Out, report)
				return nil
			}
			return ui.PrintMarkdown(report)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the report as plain markdown")

	return cmd
}

// explainPlans renders plans as a markdown report.
func explainPlans(plans []service.Plan, dialect string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Query plan (%s)\n\n", dialect)

	for _, plan := range plans {
		fmt.Fprintf(&b, "## %s\n\n", plan.Key)
		if plan.Err != nil {
			fmt.Fprintf(&b, "**error:** %s\n\n", plan.Err)
			continue
		}

		b.WriteString("| Alias | Table | Join | Fields | Where | Order |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		explainTree(&b, plan.Tree, "")
		b.WriteString("\n")

		if page := explainPage(plan.Tree.Args.Page); page != "" {
			fmt.Fprintf(&b, "Page: %s\n\n", page)
		}
		fmt.Fprintf(&b, "```sql\n%s\n```\n\n", plan.Query.SQL)
	}
	return b.String()
}

func explainTree(b *strings.Builder, tree *domain.QueryTree, join string) {
	var leaves []string
	for _, f := range tree.Fields {
		if f.IsLink() {
			continue
		}
		name := f.Column.Name
		if f.Implicit {
			name += " (implicit)"
		}
		leaves = append(leaves, name)
	}
	if join == "" {
		join = "root"
	}

	fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s | %s |\n",
		tree.Alias, tree.Table.OriginalName, join,
		strings.Join(leaves, ", "), explainWhere(tree.Args.Where), explainOrder(tree.Args.Order))

	for _, f := range tree.Fields {
		if !f.IsLink() {
			continue
		}
		kind := "object"
		if f.List {
			kind = "list"
		}
		explainTree(b, f.Nested, fmt.Sprintf("%s.%s = %s.%s (%s)",
			tree.Alias, f.Column.OriginalName, f.Nested.Alias, f.Target.OriginalName, kind))
	}
}

// explainWhere summarizes a filter as operator(columns) terms.
func explainWhere(w *domain.Where) string {
	if w.Empty() {
		return ""
	}

	var parts []string
	for _, leaf := range w.Leaves {
		columns := make([]string, 0, len(leaf.Terms))
		for _, term := range leaf.Terms {
			columns = append(columns, term.Column)
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", leaf.Operator, strings.Join(columns, ",")))
	}
	if len(w.IsNull) > 0 {
		parts = append(parts, fmt.Sprintf("isNull(%s)", strings.Join(w.IsNull, ",")))
	}
	for name, nested := range map[string][]*domain.Where{"not": w.Not, "or": w.Or, "and": w.And} {
		if len(nested) == 0 {
			continue
		}
		inner := make([]string, 0, len(nested))
		for _, n := range nested {
			inner = append(inner, explainWhere(n))
		}
		parts = append(parts, fmt.Sprintf("%s[%s]", name, strings.Join(inner, "; ")))
	}
	sort.Strings(parts[len(w.Leaves):])
	return strings.Join(parts, " ")
}

func explainOrder(terms []domain.OrderTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s %s", t.Column, t.Direction))
	}
	return strings.Join(parts, ", ")
}

func explainPage(p domain.PageArgs) string {
	var parts []string
	if p.First != nil {
		parts = append(parts, fmt.Sprintf("first %d", *p.First))
	}
	if p.After != nil {
		parts = append(parts, fmt.Sprintf("after %q", *p.After))
	}
	if p.Last != nil {
		parts = append(parts, fmt.Sprintf("last %d", *p.Last))
	}
	if p.Before != nil {
		parts = append(parts, fmt.Sprintf("before %q", *p.Before))
	}
	return strings.Join(parts, ", ")
}
