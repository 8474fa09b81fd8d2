// Package schema holds the columnar table model shared by the readers, the
// materializer and the exporters.
package schema

// ColumnType is the storage type tag a catalog reader attaches to a column.
// Values follow the Jet engine column type codes.
type ColumnType int

const (
	TypeUnknown  ColumnType = 0
	TypeBoolean  ColumnType = 1
	TypeByte     ColumnType = 2
	TypeInt16    ColumnType = 3
	TypeInt32    ColumnType = 4
	TypeMoney    ColumnType = 5
	TypeFloat32  ColumnType = 6
	TypeFloat64  ColumnType = 7
	TypeDateTime ColumnType = 8
	TypeBinary   ColumnType = 9
	TypeText     ColumnType = 10
	TypeOLE      ColumnType = 11
	TypeMemo     ColumnType = 12
	TypeGUID     ColumnType = 15
	TypeNumeric  ColumnType = 16
	TypeComplex  ColumnType = 18
	TypeInt64    ColumnType = 19
)

var typeNames = map[ColumnType]string{
	TypeUnknown:  "Unknown",
	TypeBoolean:  "Boolean",
	TypeByte:     "Byte",
	TypeInt16:    "Integer",
	TypeInt32:    "Long Integer",
	TypeMoney:    "Currency",
	TypeFloat32:  "Single",
	TypeFloat64:  "Double",
	TypeDateTime: "DateTime",
	TypeBinary:   "Binary",
	TypeText:     "Text",
	TypeOLE:      "OLE",
	TypeMemo:     "Memo",
	TypeGUID:     "Replication ID",
	TypeNumeric:  "Numeric",
	TypeComplex:  "Complex",
	TypeInt64:    "Large Number",
}

func (t ColumnType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsInteger reports whether values of the column are whole numbers.
func (t ColumnType) IsInteger() bool {
	switch t {
	case TypeByte, TypeInt16, TypeInt32, TypeInt64, TypeComplex:
		return true
	}
	return false
}

// IsText reports whether values of the column are strings.
func (t ColumnType) IsText() bool {
	return t == TypeText || t == TypeMemo
}

// Column is a named, ordered sequence of cell values, one per row.
//
// A cell is one of: nil, bool, uint8, int16, int32, int64, float32, float64,
// decimal.Decimal, time.Time, string, []byte or uuid.UUID.
type Column struct {
	Name   string
	Type   ColumnType
	Values []any
}

// Table is a named, ordered set of columns decoded from a catalog.
type Table struct {
	Name    string
	Columns []Column
}

// RowCount is the length of the first column. Columns are not assumed to be
// aligned; see Value.
func (t *Table) RowCount() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column finds a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Value returns the cell at (col, row), or nil when either index is out of
// range. Ragged columns read as nil past their end.
func (t *Table) Value(col, row int) any {
	if t == nil || col < 0 || col >= len(t.Columns) {
		return nil
	}
	values := t.Columns[col].Values
	if row < 0 || row >= len(values) {
		return nil
	}
	return values[row]
}

// Rows transposes the table into row order. Every row has one value per
// column, padded with nil for short columns.
func (t *Table) Rows() [][]any {
	n := t.RowCount()
	rows := make([][]any, n)
	for r := 0; r < n; r++ {
		row := make([]any, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.Value(c, r)
		}
		rows[r] = row
	}
	return rows
}

// Clone returns a copy whose column slices can be modified independently.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		values := make([]any, len(col.Values))
		copy(values, col.Values)
		out.Columns[i] = Column{Name: col.Name, Type: col.Type, Values: values}
	}
	return out
}
