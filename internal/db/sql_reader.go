package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/merlindb/internal/schema"
)

// sqlReader decodes tables through database/sql. Drivers differ only in the
// catalog query and identifier quoting.
type sqlReader struct {
	db        *sql.DB
	listQuery string
	listArgs  []any
	quote     func(string) string
}

func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (r *sqlReader) ListTables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.listQuery, r.listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortedUnique(tableList), nil
}

func (r *sqlReader) DecodeTable(ctx context.Context, name string) (*schema.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+r.quote(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	t := &schema.Table{Name: name, Columns: make([]schema.Column, len(colTypes))}
	for i, ct := range colTypes {
		t.Columns[i] = schema.Column{
			Name:   ct.Name(),
			Type:   columnTypeFromSQL(ct.DatabaseTypeName()),
			Values: []any{},
		}
	}

	dest := make([]any, len(colTypes))
	ptrs := make([]any, len(colTypes))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i := range t.Columns {
			t.Columns[i].Values = append(t.Columns[i].Values, normalizeValue(t.Columns[i].Type, dest[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
