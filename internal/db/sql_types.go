package db

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tordrt/merlindb/internal/schema"
)

// columnTypeFromSQL maps a driver's database type name onto a column type tag.
func columnTypeFromSQL(dbType string) schema.ColumnType {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.Index(t, "("); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")

	switch t {
	case "BOOL", "BOOLEAN", "BIT":
		return schema.TypeBoolean
	case "TINYINT", "UTINYINT", "INT1":
		return schema.TypeByte
	case "SMALLINT", "INT2", "USMALLINT":
		return schema.TypeInt16
	case "INT", "INT4", "MEDIUMINT", "SERIAL", "UINTEGER":
		return schema.TypeInt32
	// SQLite INTEGER is 64-bit.
	case "INTEGER", "BIGINT", "INT8", "BIGSERIAL", "HUGEINT", "UBIGINT":
		return schema.TypeInt64
	case "MONEY", "CURRENCY":
		return schema.TypeMoney
	case "DECIMAL", "NUMERIC":
		return schema.TypeNumeric
	case "FLOAT", "FLOAT4", "SINGLE":
		return schema.TypeFloat32
	case "REAL", "DOUBLE", "FLOAT8", "DOUBLE PRECISION":
		return schema.TypeFloat64
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP_NS", "TIMESTAMP_MS":
		return schema.TypeDateTime
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB":
		return schema.TypeBinary
	case "TEXT", "LONGTEXT", "MEDIUMTEXT", "CLOB":
		return schema.TypeMemo
	case "VARCHAR", "CHAR", "NVARCHAR", "NCHAR", "BPCHAR", "CHARACTER", "CHARACTER VARYING", "STRING", "NAME":
		return schema.TypeText
	case "UUID", "UNIQUEIDENTIFIER":
		return schema.TypeGUID
	default:
		return schema.TypeUnknown
	}
}

// normalizeValue converts a driver value to the cell type of the column.
// Values that do not fit the tag are kept as the driver returned them.
func normalizeValue(typ schema.ColumnType, v any) any {
	if v == nil {
		return nil
	}

	if b, ok := v.([]byte); ok && typ != schema.TypeBinary && typ != schema.TypeOLE {
		v = string(b)
	}

	switch typ {
	case schema.TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b
		case string:
			return b == "1" || strings.EqualFold(b, "true")
		}
		if n, ok := asInt64(v); ok {
			return n != 0
		}
	case schema.TypeByte:
		if n, ok := asInt64(v); ok && n >= 0 && n <= math.MaxUint8 {
			return uint8(n)
		}
	case schema.TypeInt16:
		if n, ok := asInt64(v); ok && n >= math.MinInt16 && n <= math.MaxInt16 {
			return int16(n)
		}
	case schema.TypeInt32:
		if n, ok := asInt64(v); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n)
		}
	case schema.TypeInt64:
		if n, ok := asInt64(v); ok {
			return n
		}
	case schema.TypeMoney, schema.TypeNumeric:
		switch d := v.(type) {
		case float64:
			return decimal.NewFromFloat(d)
		case float32:
			return decimal.NewFromFloat32(d)
		}
		if parsed, err := decimal.NewFromString(fmt.Sprint(v)); err == nil {
			return parsed
		}
	case schema.TypeFloat32:
		switch f := v.(type) {
		case float32:
			return f
		case float64:
			return float32(f)
		}
	case schema.TypeFloat64:
		switch f := v.(type) {
		case float64:
			return f
		case float32:
			return float64(f)
		}
	case schema.TypeDateTime:
		if s, ok := v.(string); ok {
			for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, s); err == nil {
					return t
				}
			}
		}
	case schema.TypeGUID:
		switch id := v.(type) {
		case [16]byte:
			return uuid.UUID(id)
		case string:
			if parsed, err := uuid.Parse(id); err == nil {
				return parsed
			}
		}
	}
	return v
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
