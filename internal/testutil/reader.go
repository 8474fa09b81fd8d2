// Package testutil provides an in-memory catalog reader and GeniSys sample
// tables for tests across the codebase.
package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/tordrt/merlindb/internal/schema"
)

// MemoryReader implements db.CatalogReader over tables held in memory.
type MemoryReader struct {
	Tables map[string]*schema.Table

	// ListErr fails ListTables when set.
	ListErr error
	// DecodeErrs fails DecodeTable for the named tables. The names are still listed.
	DecodeErrs map[string]error

	ListCalls   int
	DecodeCalls map[string]int
	Closed      bool
}

// NewMemoryReader returns a reader serving the given tables.
func NewMemoryReader(tables ...*schema.Table) *MemoryReader {
	m := &MemoryReader{
		Tables:      make(map[string]*schema.Table, len(tables)),
		DecodeErrs:  make(map[string]error),
		DecodeCalls: make(map[string]int),
	}
	for _, t := range tables {
		m.Tables[t.Name] = t
	}
	return m
}

// FailDecode makes DecodeTable fail for name with err.
func (m *MemoryReader) FailDecode(name string, err error) *MemoryReader {
	m.DecodeErrs[name] = err
	return m
}

// ListTables implements the interface method for testing.
func (m *MemoryReader) ListTables(ctx context.Context) ([]string, error) {
	m.ListCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	names := make([]string, 0, len(m.Tables)+len(m.DecodeErrs))
	for name := range m.Tables {
		names = append(names, name)
	}
	for name := range m.DecodeErrs {
		if _, ok := m.Tables[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DecodeTable implements the interface method for testing. It returns a copy
// so callers cannot change the stored table.
func (m *MemoryReader) DecodeTable(ctx context.Context, name string) (*schema.Table, error) {
	m.DecodeCalls[name]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.DecodeErrs[name]; ok {
		return nil, err
	}
	t, ok := m.Tables[name]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", name)
	}
	return t.Clone(), nil
}

// Close implements the interface method for testing.
func (m *MemoryReader) Close() error {
	m.Closed = true
	return nil
}
