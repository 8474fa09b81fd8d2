package formatter

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tordrt/merlindb/internal/schema"
)

type jsonEncoder struct{}

func (jsonEncoder) encodeTable(w io.Writer, mode string, t *schema.Table) error {
	return writeJSON(w, newTableDocument(mode, t))
}

func (jsonEncoder) encodeTables(w io.Writer, mode string, tables []*schema.Table) error {
	return writeJSON(w, newMultiDocument(mode, tables))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// MarshalJSON writes the row as an object keyed in column order.
func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := plainValue(r.values[i])
		if d, ok := v.(decimal.Decimal); ok {
			v = json.Number(d.String())
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
