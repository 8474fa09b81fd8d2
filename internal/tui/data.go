package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"

	"github.com/tordrt/merlindb/internal/formatter"
	"github.com/tordrt/merlindb/internal/schema"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 30
)

// tableStrings renders every row of t as display strings. Nil cells are blank.
func tableStrings(t *schema.Table) [][]string {
	rows := t.Rows()
	out := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = strings.ReplaceAll(formatter.CellString(v), "\n", " ")
		}
		out[r] = cells
	}
	return out
}

// filterRows keeps the rows with a cell containing term, ignoring case. An
// empty term keeps every row.
func filterRows(rows [][]string, term string) [][]string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	var out [][]string
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// gridColumns sizes each column to its widest cell within bounds.
func gridColumns(t *schema.Table, rows [][]string) []table.Column {
	cols := make([]table.Column, len(t.Columns))
	for c, col := range t.Columns {
		width := utf8.RuneCountInString(col.Name)
		for _, row := range rows {
			width = max(width, utf8.RuneCountInString(row[c]))
		}
		cols[c] = table.Column{Title: col.Name, Width: min(max(width, minColumnWidth), maxColumnWidth)}
	}
	return cols
}

func gridRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		out[i] = table.Row(row)
	}
	return out
}
