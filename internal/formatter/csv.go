package formatter

import (
	"encoding/csv"
	"io"

	"github.com/tordrt/merlindb/internal/schema"
)

const (
	tableNameColumn = "table_name"
	separatorCell   = "---"
)

type csvEncoder struct {
	separators bool
}

// encodeTable writes a header row and one row per record. A table without
// columns produces an empty file.
func (csvEncoder) encodeTable(w io.Writer, _ string, t *schema.Table) error {
	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.ColumnNames()); err != nil {
			return err
		}
		for _, row := range t.Rows() {
			if err := cw.Write(rowStrings(row)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// encodeTables writes every table under a union header led by table_name.
// Columns appear in first-seen order; cells a table lacks stay empty.
func (e csvEncoder) encodeTables(w io.Writer, _ string, tables []*schema.Table) error {
	header := []string{tableNameColumn}
	index := map[string]int{tableNameColumn: 0}
	for _, t := range tables {
		for _, name := range t.ColumnNames() {
			if _, ok := index[name]; !ok {
				index[name] = len(header)
				header = append(header, name)
			}
		}
	}

	cw := csv.NewWriter(w)
	if len(header) > 1 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for i, t := range tables {
		if len(t.Columns) == 0 {
			continue
		}
		for _, row := range t.Rows() {
			line := make([]string, len(header))
			line[0] = t.Name
			for c, col := range t.Columns {
				line[index[col.Name]] = CellString(row[c])
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
		if e.separators && i < len(tables)-1 {
			line := make([]string, len(header))
			line[0] = separatorCell
			for _, col := range t.Columns {
				line[index[col.Name]] = separatorCell
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func rowStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = CellString(v)
	}
	return out
}
