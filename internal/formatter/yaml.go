package formatter

import (
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/merlindb/internal/schema"
)

type yamlEncoder struct{}

func (yamlEncoder) encodeTable(w io.Writer, mode string, t *schema.Table) error {
	return writeYAML(w, newTableDocument(mode, t))
}

func (yamlEncoder) encodeTables(w io.Writer, mode string, tables []*schema.Table) error {
	return writeYAML(w, newMultiDocument(mode, tables))
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// MarshalYAML writes the row as a mapping keyed in column order.
func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, col := range r.columns {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col}

		var val *yaml.Node
		switch v := plainValue(r.values[i]).(type) {
		case decimal.Decimal:
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
		default:
			val = &yaml.Node{}
			if err := val.Encode(v); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
