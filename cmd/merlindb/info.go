package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// verboseTableLimit caps the per-table breakdown of info --verbose.
const verboseTableLimit = 20

func newInfoCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "info [database]",
		Short: "Show database information and summary statistics",
		Example: `  merlindb info project.mdb
  merlindb info project.mdb --verbose`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbArg, _ := splitDatabaseArg(args, 0)

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			summary, err := d.GetDatabaseSummary(ctx)
			if err != nil {
				return fmt.Errorf("failed to summarize database: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.printPanel("Database Summary",
				p.field("File", p.name.Render(summary.FilePath)),
				p.field("Total Tables", formatCount(summary.TotalTables)),
				p.field("Tables with Data", formatCount(summary.TablesWithData)),
				p.field("Total Records", formatCount(summary.TotalRecords)),
				p.field("Schema Coverage", summary.ModelCoverage),
			)
			if !verbose {
				return nil
			}

			tables, err := d.ListTables(ctx)
			if err != nil {
				return err
			}
			rows, err := tableInfoRows(ctx, d, tables[:min(len(tables), verboseTableLimit)])
			if err != nil {
				return err
			}
			if len(tables) > verboseTableLimit {
				rows = append(rows, []string{"...", fmt.Sprintf("(%d more)", len(tables)-verboseTableLimit), "...", "..."})
			}

			p.println()
			p.println(p.label.Render("Table Details:"))
			p.printTable([]string{"Table Name", "Records", "Columns", "Validated"}, rows, 1, 2)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show a per-table breakdown")
	return cmd
}
