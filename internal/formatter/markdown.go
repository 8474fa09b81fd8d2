package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/merlindb/internal/schema"
)

// markdownEncoder writes tables as pipe tables under one heading each
type markdownEncoder struct{}

func (e markdownEncoder) encodeTable(w io.Writer, mode string, t *schema.Table) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", t.Name)
	_, _ = fmt.Fprintf(w, "Mode: %s, records: %d\n\n", mode, t.RowCount())
	return e.formatTable(w, t)
}

func (e markdownEncoder) encodeTables(w io.Writer, mode string, tables []*schema.Table) error {
	_, _ = fmt.Fprintln(w, "# Database Export")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Mode: %s, tables: %d\n\n", mode, len(tables))

	for _, t := range tables {
		_, _ = fmt.Fprintf(w, "## %s\n\n", t.Name)
		if err := e.formatTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func (e markdownEncoder) formatTable(w io.Writer, t *schema.Table) error {
	// Columns
	_, _ = fmt.Fprintln(w, "### Columns")
	_, _ = fmt.Fprintln(w)
	for _, col := range t.Columns {
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", col.Name, col.Type)
	}
	_, _ = fmt.Fprintln(w)

	if len(t.Columns) == 0 || t.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "_No records._")
		_, err := fmt.Fprintln(w)
		return err
	}

	// Records
	_, _ = fmt.Fprintln(w, "### Records")
	_, _ = fmt.Fprintln(w)
	header := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = escapeCell(col.Name)
		rule[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(rule, " | "))

	for _, row := range t.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = escapeCell(CellString(v))
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	_, err := fmt.Fprintln(w)
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
