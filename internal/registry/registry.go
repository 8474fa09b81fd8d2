// Package registry maps table names to declared record schemas used to
// validate and normalize decoded rows.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// LogicalType is the type a field's values are coerced to.
type LogicalType int

const (
	Int LogicalType = iota + 1
	Float
	String
	Bool
	Time
	Decimal
	Bytes
	// IntOrString keeps numeric input as an integer and text as text.
	IntOrString
)

func (t LogicalType) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Time:
		return "time"
	case Decimal:
		return "decimal"
	case Bytes:
		return "bytes"
	case IntOrString:
		return "int|string"
	default:
		return "unknown"
	}
}

// Field declares how one source column is validated.
type Field struct {
	// Name is the normalized field name, e.g. dimmer_id.
	Name string
	// Column is the source column; empty means the column is named Name.
	Column   string
	Type     LogicalType
	Required bool
	// Default replaces a nil cell when the field is optional.
	Default any
}

// SourceColumn returns the column the field reads from.
func (f Field) SourceColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Schema is the record type declared for one table.
type Schema struct {
	// Name identifies the record type, e.g. Dimmer.
	Name       string
	Table      string
	PrimaryKey string
	Fields     []Field
}

// Columns returns the source columns referenced by the schema.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.SourceColumn()
	}
	return cols
}

// Registry is an immutable table name to schema index.
type Registry struct {
	schemas map[string]*Schema
}

// New builds a registry. Table names must be unique.
func New(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if s == nil || s.Table == "" {
			return nil, fmt.Errorf("schema without table name")
		}
		if prev, ok := r.schemas[s.Table]; ok {
			return nil, fmt.Errorf("table %s registered twice (%s, %s)", s.Table, prev.Name, s.Name)
		}
		if err := checkFields(s); err != nil {
			return nil, err
		}
		r.schemas[s.Table] = s
	}
	return r, nil
}

// MustNew is New for static declarations.
func MustNew(schemas ...*Schema) *Registry {
	r, err := New(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkFields(s *Schema) error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		col := f.SourceColumn()
		if col == "" {
			return fmt.Errorf("schema %s: field without name", s.Name)
		}
		if seen[col] {
			return fmt.Errorf("schema %s: column %s mapped twice", s.Name, col)
		}
		seen[col] = true
	}
	return nil
}

// Lookup returns the schema declared for a table, matched case-sensitively.
func (r *Registry) Lookup(table string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.schemas[table]
	return s, ok
}

// Tables lists the registered table names in sorted order.
func (r *Registry) Tables() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldError is a single field failing coercion.
type FieldError struct {
	Field  string
	Column string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (column %s): %v", e.Field, e.Column, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// RecordError collects every field error of one record.
type RecordError []*FieldError

func (e RecordError) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Coerce validates a column to value record. On success it returns the
// normalized value of every referenced column present in the record, with
// defaults applied to nil optional fields. Columns the schema does not
// reference are not returned.
func (s *Schema) Coerce(record map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	var errs RecordError

	for _, f := range s.Fields {
		col := f.SourceColumn()
		raw, present := record[col]

		if raw == nil {
			if f.Required {
				errs = append(errs, &FieldError{Field: f.Name, Column: col, Err: errRequired})
				continue
			}
			if present {
				out[col] = f.Default
			}
			continue
		}

		v, err := coerce(f.Type, raw)
		if err != nil {
			errs = append(errs, &FieldError{Field: f.Name, Column: col, Err: err})
			continue
		}
		out[col] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
