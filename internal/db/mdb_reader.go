package db

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tordrt/merlindb/internal/schema"
)

const mdbDateFormat = "%Y-%m-%d %H:%M:%S"

// mdbTimeLayouts covers the export format requested above plus the
// mdbtools default for builds that ignore it.
var mdbTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"01/02/06 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

// accessTypes maps the type names printed by mdb-schema's access backend.
var accessTypes = map[string]schema.ColumnType{
	"boolean":        schema.TypeBoolean,
	"yes/no":         schema.TypeBoolean,
	"byte":           schema.TypeByte,
	"integer":        schema.TypeInt16,
	"long integer":   schema.TypeInt32,
	"currency":       schema.TypeMoney,
	"single":         schema.TypeFloat32,
	"double":         schema.TypeFloat64,
	"datetime":       schema.TypeDateTime,
	"date/time":      schema.TypeDateTime,
	"binary":         schema.TypeBinary,
	"text":           schema.TypeText,
	"ole":            schema.TypeOLE,
	"memo/hyperlink": schema.TypeMemo,
	"memo":           schema.TypeMemo,
	"replication id": schema.TypeGUID,
	"numeric":        schema.TypeNumeric,
	"complex":        schema.TypeComplex,
	"large number":   schema.TypeInt64,
}

type columnDef struct {
	name string
	typ  schema.ColumnType
}

// MDBReader decodes Access tables with mdb-tables, mdb-schema and mdb-export
type MDBReader struct {
	client *MDBClient
}

var _ CatalogReader = (*MDBReader)(nil)

// NewMDBReader creates a catalog reader over an open client
func NewMDBReader(client *MDBClient) *MDBReader {
	return &MDBReader{client: client}
}

// ListTables returns the user tables; system tables are not listed
func (r *MDBReader) ListTables(ctx context.Context) ([]string, error) {
	out, err := r.client.tool(ctx, "mdb-tables", "-1", r.client.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		// Access allows surrounding spaces in table names.
		names = append(names, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table list: %w", err)
	}
	return sortedUnique(names), nil
}

// DecodeTable exports a table as CSV and converts each field by its column type.
// Empty CSV fields decode as nil, so empty text is indistinguishable from null.
func (r *MDBReader) DecodeTable(ctx context.Context, name string) (*schema.Table, error) {
	schemaOut, err := r.client.tool(ctx, "mdb-schema", "-T", name, r.client.path, "access")
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	defs := parseMDBSchema(schemaOut)

	data, err := r.client.tool(ctx, "mdb-export", "-D", mdbDateFormat, "-T", mdbDateFormat, "-b", "hex", r.client.path, name)
	if err != nil {
		return nil, fmt.Errorf("failed to export rows: %w", err)
	}

	return decodeMDBExport(name, defs, bytes.NewReader(data))
}

// Close releases the client.
func (r *MDBReader) Close() error {
	return r.client.Close()
}

// parseMDBSchema extracts "[Name] Type" lines from a CREATE TABLE block.
func parseMDBSchema(out []byte) []columnDef {
	var defs []columnDef
	inTable := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "CREATE TABLE"):
			inTable = true
			continue
		case strings.HasPrefix(line, ");"):
			if inTable {
				return defs
			}
			continue
		case !inTable || !strings.HasPrefix(line, "["):
			continue
		}

		end := strings.Index(line, "]")
		if end < 0 {
			continue
		}
		name := line[1:end]
		typeName := strings.TrimSpace(line[end+1:])
		typeName = strings.TrimSuffix(typeName, ",")
		typeName = strings.TrimSpace(strings.TrimSuffix(typeName, "NOT NULL"))
		if i := strings.Index(typeName, "("); i >= 0 {
			typeName = typeName[:i]
		}
		defs = append(defs, columnDef{name: name, typ: accessTypes[strings.ToLower(strings.TrimSpace(typeName))]})
	}
	return defs
}

func decodeMDBExport(table string, defs []columnDef, data io.Reader) (*schema.Table, error) {
	reader := csv.NewReader(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		// No header means no columns; fall back to the declared ones.
		t := &schema.Table{Name: table, Columns: make([]schema.Column, len(defs))}
		for i, d := range defs {
			t.Columns[i] = schema.Column{Name: d.name, Type: d.typ, Values: []any{}}
		}
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	types := make(map[string]schema.ColumnType, len(defs))
	for _, d := range defs {
		types[d.name] = d.typ
	}

	t := &schema.Table{Name: table, Columns: make([]schema.Column, len(header))}
	for i, name := range header {
		t.Columns[i] = schema.Column{Name: name, Type: types[name], Values: []any{}}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		for i := range t.Columns {
			var v any
			if i < len(record) {
				v, err = parseMDBValue(t.Columns[i].Type, record[i])
				if err != nil {
					return nil, fmt.Errorf("line %d, column %s: %w", line, t.Columns[i].Name, err)
				}
			}
			t.Columns[i].Values = append(t.Columns[i].Values, v)
		}
	}
	return t, nil
}

// parseMDBValue converts one exported field according to its column type.
func parseMDBValue(typ schema.ColumnType, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	switch typ {
	case schema.TypeBoolean:
		switch strings.ToLower(raw) {
		case "1", "true", "-1", "yes":
			return true, nil
		case "0", "false", "no":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", raw)
	case schema.TypeByte:
		n, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return nil, err
		}
		return uint8(n), nil
	case schema.TypeInt16:
		n, err := strconv.ParseInt(raw, 10, 16)
		if err != nil {
			return nil, err
		}
		return int16(n), nil
	case schema.TypeInt32, schema.TypeComplex:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	case schema.TypeInt64:
		return strconv.ParseInt(raw, 10, 64)
	case schema.TypeMoney, schema.TypeNumeric:
		return decimal.NewFromString(raw)
	case schema.TypeFloat32:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case schema.TypeFloat64:
		return strconv.ParseFloat(raw, 64)
	case schema.TypeDateTime:
		for _, layout := range mdbTimeLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid date %q", raw)
	case schema.TypeBinary, schema.TypeOLE:
		return hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	case schema.TypeGUID:
		id, err := uuid.Parse(strings.Trim(raw, "{}"))
		if err != nil {
			return nil, err
		}
		return id, nil
	default:
		return raw, nil
	}
}
