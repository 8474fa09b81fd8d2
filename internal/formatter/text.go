package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tordrt/merlindb/internal/schema"
)

// textEncoder writes tables as compact aligned text
type textEncoder struct{}

func (e textEncoder) encodeTable(w io.Writer, _ string, t *schema.Table) error {
	return e.formatTable(w, t)
}

func (e textEncoder) encodeTables(w io.Writer, _ string, tables []*schema.Table) error {
	for i, t := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(w) // Blank line between tables
		}
		if err := e.formatTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func (e textEncoder) formatTable(w io.Writer, t *schema.Table) error {
	_, _ = fmt.Fprintf(w, "TABLE %s (%d records)\n", t.Name, t.RowCount())
	if len(t.Columns) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	_, _ = fmt.Fprintf(tw, "  %s\n", strings.Join(header, "\t"))

	for _, row := range t.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = strings.NewReplacer("\n", " ", "\t", " ").Replace(CellString(v))
		}
		_, _ = fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
