package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/tordrt/merlindb/internal/schema"
)

const (
	maxSheetName   = 31
	maxColumnWidth = 50
	defaultSheet   = "Sheet1"
)

type xlsxEncoder struct{}

func (e xlsxEncoder) encodeTable(w io.Writer, _ string, t *schema.Table) error {
	return e.encodeTables(w, "", []*schema.Table{t})
}

// encodeTables writes one worksheet per table.
func (xlsxEncoder) encodeTables(w io.Writer, _ string, tables []*schema.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	used := make(map[string]bool, len(tables))
	for i, t := range tables {
		sheet := sheetName(t.Name, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// sheetName fits a table name to Excel's worksheet naming rules. Names
// already taken (case-insensitively) get a ~N suffix.
func sheetName(table string, used map[string]bool) string {
	name := []rune(strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, table))
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	candidate := string(name)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		candidate = string(name[:min(len(name), maxSheetName-len(suffix))]) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func writeSheet(f *excelize.File, sheet string, t *schema.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}

	header := make([]any, len(t.Columns))
	widths := make([]int, len(t.Columns))
	for c, col := range t.Columns {
		header[c] = col.Name
		widths[c] = utf8.RuneCountInString(col.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range t.Rows() {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = sheetValue(v)
			if n := utf8.RuneCountInString(CellString(v)); n > widths[c] {
				widths[c] = n
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	for c, width := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(min(width+2, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}

// sheetValue maps cells onto types excelize stores natively.
func sheetValue(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return c.InexactFloat64()
	case uuid.UUID:
		return c.String()
	case []byte:
		return CellString(c)
	case time.Time:
		return c
	default:
		return v
	}
}
