// Package db decodes database catalogs into columnar tables.
//
// Access MDB/ACCDB files are read through the mdbtools executables; SQLite,
// DuckDB, MySQL and PostgreSQL sources are read through their Go drivers so
// migrated copies of a catalog can be browsed the same way.
package db

import (
	"context"
	"sort"

	"github.com/tordrt/merlindb/internal/schema"
)

// CatalogReader lists and decodes the tables of one open database.
type CatalogReader interface {
	// ListTables returns the user tables of the catalog.
	ListTables(ctx context.Context) ([]string, error)
	// DecodeTable reads every row of a table into columns.
	DecodeTable(ctx context.Context, name string) (*schema.Table, error)
	Close() error
}

// sortedUnique sorts names and drops duplicates and empty entries.
func sortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
