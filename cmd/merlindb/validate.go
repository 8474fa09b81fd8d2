package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/tordrt/merlindb"
)

// Per-table validation outcomes.
const (
	statusSuccess  = "success"
	statusNoSchema = "no_model"
	statusError    = "error"
)

type tableValidation struct {
	Table     string
	Status    string
	Records   int
	RowErrors int
	Err       string
}

// validateTables validates each table in turn. Decode failures are recorded
// per table and do not stop the run.
func validateTables(ctx context.Context, d *merlindb.Database, tables []string) ([]tableValidation, error) {
	out := make([]tableValidation, 0, len(tables))
	for _, name := range tables {
		v := tableValidation{Table: name}

		if !d.HasSchema(name) {
			info, err := d.GetTableInfo(ctx, name)
			if err != nil {
				return nil, err
			}
			v.Status = statusNoSchema
			v.Records = info.RecordCount
			if info.Error != "" {
				v.Status, v.Err = statusError, info.Error
			}
			out = append(out, v)
			continue
		}

		res, err := d.ValidateTable(ctx, name)
		if err != nil {
			var decodeErr *merlindb.TableDecodeError
			if !errors.As(err, &decodeErr) {
				return nil, err
			}
			v.Status, v.Err = statusError, err.Error()
			out = append(out, v)
			continue
		}
		v.Status = statusSuccess
		v.Records = res.Table.RowCount()
		v.RowErrors = len(res.Errors)
		out = append(out, v)
	}
	return out, nil
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		table       string
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "validate [database]",
		Short: "Validate tables against the GeniSys schemas",
		Example: `  merlindb validate project.mdb
  merlindb validate project.mdb --table Phys_Dimmers
  merlindb validate project.mdb --summary`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbArg, _ := splitDatabaseArg(args, 0)

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			p := newPrinter(cmd.OutOrStdout())

			tables, err := d.ListTables(ctx)
			if err != nil {
				return err
			}
			if table != "" {
				ok, err := d.TableExists(ctx, table)
				if err != nil {
					return err
				}
				if !ok {
					p.fail("Table '%s' not found", table)
					return nil
				}
				tables = []string{table}
			}

			results, err := validateTables(ctx, d, tables)
			if err != nil {
				return err
			}

			if summaryOnly {
				printValidationSummary(p, results)
				return nil
			}

			p.println(p.label.Render("Validation Results:"))
			p.println()
			for _, r := range results {
				switch r.Status {
				case statusSuccess:
					if r.RowErrors > 0 {
						p.warn("  ⚠ %s: %s records validated, %s rows failed", r.Table, formatCount(r.Records), formatCount(r.RowErrors))
						continue
					}
					p.println("  " + p.success.Render("✓ "+r.Table) + ": " + formatCount(r.Records) + " records validated")
				case statusNoSchema:
					p.println("  " + p.warning.Render("○ "+r.Table) + ": No schema available")
				case statusError:
					p.println("  " + p.failure.Render("✗ "+r.Table) + ": " + r.Err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "Validate only this table")
	cmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "Show the summary only")
	return cmd
}

func printValidationSummary(p *printer, results []tableValidation) {
	var success, noSchema, failed, records, rowErrors int
	for _, r := range results {
		switch r.Status {
		case statusSuccess:
			success++
			records += r.Records
			rowErrors += r.RowErrors
		case statusNoSchema:
			noSchema++
		case statusError:
			failed++
		}
	}

	p.printPanel("Validation Summary",
		p.success.Render("✓ Validated Successfully:")+" "+formatCount(success)+" tables ("+formatCount(records)+" records)",
		p.warning.Render("⚠ Rows Failing Validation:")+" "+formatCount(rowErrors),
		p.warning.Render("○ No Schema:")+" "+formatCount(noSchema)+" tables",
		p.failure.Render("✗ Validation Errors:")+" "+formatCount(failed)+" tables",
	)
}
