package formatter

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tordrt/merlindb/internal/schema"
)

// TimeLayout is used for date cells in text-based formats.
const TimeLayout = "2006-01-02 15:04:05"

// CellString renders a cell for text output. Nil renders as "".
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case decimal.Decimal:
		return c.String()
	case time.Time:
		return c.Format(TimeLayout)
	case []byte:
		return base64.StdEncoding.EncodeToString(c)
	case uuid.UUID:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// plainValue converts cells without a natural JSON/YAML form.
func plainValue(v any) any {
	switch c := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(c)
	case uuid.UUID:
		return c.String()
	default:
		return v
	}
}

// record is one row with its column order preserved when encoded.
type record struct {
	columns []string
	values  []any
}

func records(t *schema.Table) []record {
	cols := t.ColumnNames()
	rows := t.Rows()
	out := make([]record, len(rows))
	for i, row := range rows {
		out[i] = record{columns: cols, values: row}
	}
	return out
}

type tableDocument struct {
	TableName    string   `json:"table_name" yaml:"table_name"`
	ProviderMode string   `json:"provider_mode" yaml:"provider_mode"`
	RecordCount  int      `json:"record_count" yaml:"record_count"`
	Columns      []string `json:"columns" yaml:"columns"`
	Records      []record `json:"records" yaml:"records"`
}

type tableEntry struct {
	Columns     []string `json:"columns" yaml:"columns"`
	RecordCount int      `json:"record_count" yaml:"record_count"`
	Records     []record `json:"records" yaml:"records"`
}

type multiDocument struct {
	ProviderMode string                `json:"provider_mode" yaml:"provider_mode"`
	TableCount   int                   `json:"table_count" yaml:"table_count"`
	TotalRecords int                   `json:"total_records" yaml:"total_records"`
	Tables       map[string]tableEntry `json:"tables" yaml:"tables"`
}

func newTableDocument(mode string, t *schema.Table) tableDocument {
	return tableDocument{
		TableName:    t.Name,
		ProviderMode: mode,
		RecordCount:  t.RowCount(),
		Columns:      t.ColumnNames(),
		Records:      records(t),
	}
}

func newMultiDocument(mode string, tables []*schema.Table) multiDocument {
	doc := multiDocument{
		ProviderMode: mode,
		TableCount:   len(tables),
		Tables:       make(map[string]tableEntry, len(tables)),
	}
	for _, t := range tables {
		doc.TotalRecords += t.RowCount()
		doc.Tables[t.Name] = tableEntry{
			Columns:     t.ColumnNames(),
			RecordCount: t.RowCount(),
			Records:     records(t),
		}
	}
	return doc
}
