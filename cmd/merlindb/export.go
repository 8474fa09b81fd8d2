package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tordrt/merlindb"
)

// maxListedTables caps the table names echoed after an export.
const maxListedTables = 10

// formatFlag accepts only the supported export formats.
type formatFlag struct {
	value string
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return f.value }

func (f *formatFlag) Set(s string) error {
	v := strings.ToLower(s)
	if !slices.Contains(merlindb.Formats(), v) {
		return fmt.Errorf("unsupported format %q: use one of %s", s, strings.Join(merlindb.Formats(), ", "))
	}
	f.value = v
	return nil
}

func (f *formatFlag) Type() string { return "format" }

func newExportCmd(a *app) *cobra.Command {
	var (
		format        = formatFlag{value: "json"}
		tables        []string
		separate      bool
		validate      bool
		mode          string
		csvSeparators bool
	)

	cmd := &cobra.Command{
		Use:   "export [database] <output>",
		Short: "Export database tables to JSON, YAML, CSV, XLSX and more",
		Example: `  merlindb export project.mdb output.json
  merlindb export project.mdb output.yaml --format yaml --table Config --table Events
  merlindb export project.mdb data.csv --format csv --table "GeniSys*" --separate
  merlindb export project.mdb output.json --validate`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbArg, rest := splitDatabaseArg(args, 1)
			output := rest[0]

			if !cmd.Flags().Changed("format") {
				format.value = a.cfg.Format
			}
			if !cmd.Flags().Changed("validate") {
				validate = a.cfg.Validate
			}
			if !cmd.Flags().Changed("csv-separators") {
				csvSeparators = a.cfg.CSVSeparators
			}

			d, err := a.open(ctx, dbArg)
			if err != nil {
				return err
			}
			defer closeDatabase(cmd, d)

			res, err := d.Export(ctx, output, &merlindb.ExportOptions{
				Format:        format.value,
				Tables:        tables,
				Separate:      separate,
				Validate:      validate,
				Mode:          mode,
				CSVSeparators: csvSeparators,
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.ok("Export completed successfully!")
			p.printf("  %s %s\n", p.label.Render("Format:"), res.Format)
			p.printf("  %s %s\n", p.label.Render("Mode:"), res.Mode)
			p.printf("  %s %d\n", p.label.Render("Tables exported:"), res.TablesExported)
			p.printf("  %s %d\n", p.label.Render("Output files:"), len(res.OutputFiles))
			if res.TablesExported <= maxListedTables {
				p.printf("  %s %s\n", p.label.Render("Tables:"), strings.Join(res.TableNames, ", "))
			}

			if len(res.Failed) > 0 {
				p.println()
				p.warn("Skipped %d tables that could not be read:", len(res.Failed))
				for _, name := range slices.Sorted(maps.Keys(res.Failed)) {
					p.printf("  ⚠ %s: %s\n", p.name.Render(name), res.Failed[name])
				}
			}

			p.println()
			p.println(p.label.Render("Output files:"))
			for _, f := range res.OutputFiles {
				if st, err := os.Stat(f); err == nil {
					p.printf("  → %s (%.1f KB)\n", p.name.Render(f), float64(st.Size())/1024)
					continue
				}
				p.printf("  → %s\n", p.name.Render(f))
			}
			return nil
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "Export format: "+strings.Join(merlindb.Formats(), ", "))
	cmd.Flags().StringArrayVarP(&tables, "table", "t", nil, "Table name or glob pattern to export (repeatable)")
	cmd.Flags().BoolVarP(&separate, "separate", "s", false, "Write one file per table")
	cmd.Flags().BoolVarP(&validate, "validate", "v", false, "Apply schema validation during export")
	cmd.Flags().StringVarP(&mode, "mode", "m", "raw", "Browsing mode: "+strings.Join(merlindb.Modes(), ", "))
	cmd.Flags().BoolVar(&csvSeparators, "csv-separators", true, "Insert --- rows between tables in combined CSV output")
	return cmd
}
