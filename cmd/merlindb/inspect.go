package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/merlindb"
	"github.com/tordrt/merlindb/internal/formatter"
	"github.com/tordrt/merlindb/internal/materialize"
)

const (
	maxSuggestions    = 5
	maxSampleColumns  = 10
	sampleValuesShown = 3
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		validate bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "inspect [database] <table>",
		Short: "Inspect a table's structure and data",
		Example: `  merlindb inspect project.mdb Config
  merlindb inspect project.mdb Phys_Dimmers --validate
  merlindb inspect project.mdb Config --limit 5`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbArg, rest := splitDatabaseArg(args, 1)
			name := rest[0]

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			p := newPrinter(cmd.OutOrStdout())

			exists, err := d.TableExists(ctx, name)
			if err != nil {
				return err
			}
			if !exists {
				if similar := similarTables(ctx, d, name); len(similar) > 0 {
					p.warn("Did you mean: %s?", strings.Join(similar, ", "))
				}
				return fmt.Errorf("table '%s' not found", name)
			}

			info, err := d.GetTableInfo(ctx, name)
			if err != nil {
				return err
			}
			if info.Error != "" {
				return errors.New(info.Error)
			}

			var res *materialize.Result
			if validate {
				res, err = d.ValidateTable(ctx, name)
			} else {
				var t *merlindb.Table
				t, err = d.GetTable(ctx, name, false)
				res = &materialize.Result{Table: t}
			}
			if err != nil {
				return err
			}

			status := "○ Raw data only"
			if info.HasSchema {
				status = "✓ Schema validation available"
			}
			p.printPanel("Table: "+name,
				p.field("Name", p.name.Render(name)),
				p.field("Records", formatCount(info.RecordCount)),
				p.field("Columns", formatCount(info.ColumnCount)),
				p.field("Validation", status),
			)

			if validate && info.HasSchema {
				printValidation(p, res)
			}

			t := res.Table
			if t.RowCount() == 0 {
				return nil
			}

			p.println()
			p.println(p.label.Render(fmt.Sprintf("Columns (%d):", len(t.Columns))))
			for i, col := range t.Columns {
				p.printf("  %2d. %s (%s) - Sample: %s\n", i+1, p.name.Render(col.Name), col.Type, sampleValues(col.Values))
			}

			if limit <= 0 {
				return nil
			}
			shown := min(limit, t.RowCount())
			cols := t.Columns[:min(len(t.Columns), maxSampleColumns)]

			headers := make([]string, len(cols))
			for i, col := range cols {
				headers[i] = col.Name
			}
			rows := make([][]string, shown)
			for r := 0; r < shown; r++ {
				row := make([]string, len(cols))
				for c := range cols {
					row[c] = displayValue(t.Value(c, r))
				}
				rows[r] = row
			}

			p.println()
			p.println(p.label.Render(fmt.Sprintf("Sample Data (first %d records):", shown)))
			p.printTable(headers, rows)
			if extra := len(t.Columns) - len(cols); extra > 0 {
				p.dim("... and %d more columns", extra)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&validate, "validate", "v", false, "Apply schema validation")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of records to show")
	return cmd
}

// similarTables returns up to five tables whose names contain name,
// ignoring case.
func similarTables(ctx context.Context, d *merlindb.Database, name string) []string {
	tables, err := d.ListTables(ctx)
	if err != nil {
		return nil
	}
	needle := strings.ToLower(name)
	var out []string
	for _, t := range tables {
		if strings.Contains(strings.ToLower(t), needle) {
			out = append(out, t)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

func printValidation(p *printer, res *materialize.Result) {
	p.println()
	if res.Valid() {
		p.ok("All %s records passed validation", formatCount(res.Table.RowCount()))
		return
	}
	p.warn("Validation errors (%d rows kept raw values):", len(res.Errors))
	for _, line := range res.Preview(materialize.PreviewLimit) {
		p.printf("  %s\n", line)
	}
}

func sampleValues(values []any) string {
	if len(values) == 0 {
		return "(empty)"
	}
	n := min(len(values), sampleValuesShown)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = displayValue(values[i])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func displayValue(v any) string {
	if v == nil {
		return "(null)"
	}
	return formatter.CellString(v)
}
