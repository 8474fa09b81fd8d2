package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotOpenable is matched by every error returned when a database
// source cannot be opened.
var ErrFileNotOpenable = errors.New("database file not openable")

// OpenError reports a source that could not be opened.
type OpenError struct {
	Source string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open database %s: %v", e.Source, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrFileNotOpenable }

// TableNotFoundError reports a table name missing from the catalog.
type TableNotFoundError struct {
	Name      string
	Available []string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table '%s' not found. Available tables: %s", e.Name, strings.Join(e.Available, ", "))
}

// TableDecodeError wraps a reader failure while decoding one table.
type TableDecodeError struct {
	Table string
	Err   error
}

func (e *TableDecodeError) Error() string {
	return fmt.Sprintf("failed to parse table '%s': %v", e.Table, e.Err)
}

func (e *TableDecodeError) Unwrap() error { return e.Err }

// NoTablesMatchedError reports an export selection that resolved to nothing.
type NoTablesMatchedError struct {
	Patterns  []string
	Available []string
}

func (e *NoTablesMatchedError) Error() string {
	return fmt.Sprintf("no tables match patterns: %s. Available tables: %s",
		strings.Join(e.Patterns, ", "), strings.Join(e.Available, ", "))
}

// UnsupportedFormatError reports an unknown export format.
type UnsupportedFormatError struct {
	Format    string
	Available []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s. Available formats: %s", e.Format, strings.Join(e.Available, ", "))
}
