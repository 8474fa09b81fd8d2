// Package materialize validates decoded tables row by row against a
// registry schema without letting one bad row affect the others.
package materialize

import (
	"fmt"
	"log/slog"

	"github.com/tordrt/merlindb/internal/registry"
	"github.com/tordrt/merlindb/internal/schema"
)

// PreviewLimit is the number of row errors shown before summarizing the rest.
const PreviewLimit = 5

// ValidationError describes one row that failed validation.
type ValidationError struct {
	Table  string
	Row    int
	Detail string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Table, e.Row, e.Detail)
}

// Result is a materialized table plus the rows that failed validation.
type Result struct {
	Table  *schema.Table
	Errors []ValidationError
}

// Valid reports whether every row passed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Preview returns up to limit error lines followed by a remainder line when
// more errors exist.
func (r *Result) Preview(limit int) []string {
	if limit <= 0 {
		limit = PreviewLimit
	}
	n := len(r.Errors)
	shown := min(n, limit)

	lines := make([]string, 0, shown+1)
	for _, e := range r.Errors[:shown] {
		lines = append(lines, fmt.Sprintf("Row %d: %s", e.Row, e.Detail))
	}
	if n > shown {
		lines = append(lines, fmt.Sprintf("... and %d more errors", n-shown))
	}
	return lines
}

// Log writes the bounded preview as warnings.
func (r *Result) Log(logger *slog.Logger) {
	if r.Valid() || logger == nil {
		return
	}
	logger.Warn("validation errors", "table", r.Table.Name, "count", len(r.Errors))
	for _, e := range r.Errors[:min(len(r.Errors), PreviewLimit)] {
		logger.Warn("row failed validation", "table", e.Table, "row", e.Row, "detail", e.Detail)
	}
	if rest := len(r.Errors) - PreviewLimit; rest > 0 {
		logger.Warn(fmt.Sprintf("... and %d more errors", rest), "table", r.Table.Name)
	}
}

// rowOutcome carries either the normalized values of a row or its failure.
type rowOutcome struct {
	values map[string]any
	err    error
}

func validateRow(s *registry.Schema, record map[string]any) rowOutcome {
	values, err := s.Coerce(record)
	return rowOutcome{values: values, err: err}
}

// Materialize validates raw against s. With a nil schema the raw table is
// returned unchanged. Otherwise every column of raw appears in the output
// and rows that fail keep their raw values. Validation covers the first
// RowCount rows; short columns are padded with nil to that length and values
// past it in longer columns are kept unvalidated.
func Materialize(raw *schema.Table, s *registry.Schema) *Result {
	if s == nil || raw == nil {
		return &Result{Table: raw}
	}

	rows := raw.RowCount()
	out := &schema.Table{Name: raw.Name, Columns: make([]schema.Column, len(raw.Columns))}
	for c, col := range raw.Columns {
		out.Columns[c] = schema.Column{Name: col.Name, Type: col.Type, Values: make([]any, rows)}
	}

	var errs []ValidationError
	for r := 0; r < rows; r++ {
		record := make(map[string]any, len(raw.Columns))
		for c, col := range raw.Columns {
			record[col.Name] = raw.Value(c, r)
		}

		outcome := validateRow(s, record)
		if outcome.err != nil {
			errs = append(errs, ValidationError{Table: raw.Name, Row: r, Detail: outcome.err.Error()})
		}

		for c, col := range raw.Columns {
			v := record[col.Name]
			if outcome.err == nil {
				if nv, ok := outcome.values[col.Name]; ok {
					v = nv
				}
			}
			out.Columns[c].Values[r] = v
		}
	}

	for c, col := range raw.Columns {
		if len(col.Values) > rows {
			out.Columns[c].Values = append(out.Columns[c].Values, col.Values[rows:]...)
		}
	}

	return &Result{Table: out, Errors: errs}
}
