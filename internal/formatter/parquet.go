package formatter

import (
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/tordrt/merlindb/internal/schema"
)

// parquetEncoder writes one table per file; it has no combined form.
type parquetEncoder struct{}

func (parquetEncoder) encodeTable(w io.Writer, _ string, t *schema.Table) error {
	table := arrowTable(t)
	defer table.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// The writer closes its sink; the caller owns w.
	writer, err := pqarrow.NewFileWriter(table.Schema(), struct{ io.Writer }{w}, props, arrowProps)
	if err != nil {
		return err
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// arrowTable converts a table column by column. A column whose values do
// not all fit its tagged type is written as strings.
func arrowTable(t *schema.Table) arrow.Table {
	pool := memory.NewGoAllocator()
	rows := t.RowCount()

	fields := make([]arrow.Field, len(t.Columns))
	columns := make([]arrow.Column, len(t.Columns))
	for c, col := range t.Columns {
		dt := arrowType(col)
		fields[c] = arrow.Field{Name: col.Name, Type: dt, Nullable: true}

		builder := array.NewBuilder(pool, dt)
		for r := 0; r < rows; r++ {
			appendCell(builder, t.Value(c, r))
		}
		arr := builder.NewArray()
		builder.Release()

		chunked := arrow.NewChunked(dt, []arrow.Array{arr})
		arr.Release()
		columns[c] = *arrow.NewColumn(fields[c], chunked)
		chunked.Release()
	}

	return array.NewTable(arrow.NewSchema(fields, nil), columns, int64(rows))
}

func arrowType(col schema.Column) arrow.DataType {
	var dt arrow.DataType
	switch {
	case col.Type == schema.TypeBoolean:
		dt = arrow.FixedWidthTypes.Boolean
	case col.Type.IsInteger():
		dt = arrow.PrimitiveTypes.Int64
	case col.Type == schema.TypeFloat32:
		dt = arrow.PrimitiveTypes.Float32
	case col.Type == schema.TypeFloat64:
		dt = arrow.PrimitiveTypes.Float64
	case col.Type == schema.TypeDateTime:
		dt = arrow.FixedWidthTypes.Timestamp_us
	case col.Type == schema.TypeBinary || col.Type == schema.TypeOLE:
		dt = arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}

	for _, v := range col.Values {
		if v != nil && !fitsArrow(dt, v) {
			return arrow.BinaryTypes.String
		}
	}
	return dt
}

func fitsArrow(dt arrow.DataType, v any) bool {
	switch dt.ID() {
	case arrow.BOOL:
		_, ok := v.(bool)
		return ok
	case arrow.INT64:
		_, ok := intValue(v)
		return ok
	case arrow.FLOAT32:
		_, ok := v.(float32)
		return ok
	case arrow.FLOAT64:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case arrow.TIMESTAMP:
		_, ok := v.(time.Time)
		return ok
	case arrow.BINARY:
		_, ok := v.([]byte)
		return ok
	}
	return true
}

func appendCell(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch b := b.(type) {
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.Int64Builder:
		n, _ := intValue(v)
		b.Append(n)
	case *array.Float32Builder:
		b.Append(v.(float32))
	case *array.Float64Builder:
		switch f := v.(type) {
		case float32:
			b.Append(float64(f))
		case float64:
			b.Append(f)
		}
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.BinaryBuilder:
		b.Append(v.([]byte))
	case *array.StringBuilder:
		b.Append(CellString(v))
	}
}

func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case uint8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
