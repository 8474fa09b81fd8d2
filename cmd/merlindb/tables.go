package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tordrt/merlindb"
	"github.com/tordrt/merlindb/internal/formatter"
)

func newTablesCmd(a *app) *cobra.Command {
	var (
		pattern  string
		showInfo bool
	)

	cmd := &cobra.Command{
		Use:   "tables [database]",
		Short: "List the tables in the database",
		Example: `  merlindb tables project.mdb
  merlindb tables project.mdb --pattern "GeniSys*"
  merlindb tables project.mdb --info`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbArg, _ := splitDatabaseArg(args, 0)

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			tables, err := d.ListTables(ctx)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if pattern != "" {
				tables, err = formatter.MatchPattern(tables, pattern)
				if err != nil {
					return &usageError{err}
				}
				if len(tables) == 0 {
					p.warn("No tables match pattern '%s'", pattern)
					return nil
				}
			}

			if showInfo {
				rows, err := tableInfoRows(ctx, d, tables)
				if err != nil {
					return err
				}
				p.printTable([]string{"Table Name", "Records", "Columns", "Validated"}, rows, 1, 2)
				return nil
			}

			p.println(p.label.Render("Available Tables (" + formatCount(len(tables)) + "):"))
			p.println()
			for i, name := range tables {
				p.printf("  %2d. %s\n", i+1, p.name.Render(name))
			}
			if pattern != "" {
				p.println()
				p.dim("Filtered by pattern: %s", pattern)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Filter tables by glob pattern")
	cmd.Flags().BoolVarP(&showInfo, "info", "i", false, "Show record and column counts")
	return cmd
}

// tableInfoRows builds the Name/Records/Columns/Validated rows. Tables that
// fail to decode show "Error" instead of counts.
func tableInfoRows(ctx context.Context, d *merlindb.Database, tables []string) ([][]string, error) {
	rows := make([][]string, 0, len(tables))
	for _, name := range tables {
		info, err := d.GetTableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		if info.Error != "" {
			rows = append(rows, []string{name, "Error", "Error", checkMark(false)})
			continue
		}
		rows = append(rows, []string{
			name,
			formatCount(info.RecordCount),
			formatCount(info.ColumnCount),
			checkMark(info.HasSchema),
		})
	}
	return rows, nil
}
