package provider

import (
	"context"

	"github.com/tordrt/merlindb/internal/schema"
)

// Raw exposes the catalog tables unchanged.
type Raw struct {
	catalog  Catalog
	validate bool
}

// NewRaw wraps a catalog. With validate set, fetched tables are validated
// against their registered schema.
func NewRaw(c Catalog, validate bool) *Raw {
	return &Raw{catalog: c, validate: validate}
}

func (r *Raw) Mode() string { return "Raw" }

func (r *Raw) Description() string {
	return "Direct view of MDB database tables without transformation"
}

func (r *Raw) ListAvailable(ctx context.Context) ([]string, error) {
	return r.catalog.ListTables(ctx)
}

func (r *Raw) Fetch(ctx context.Context, name string) (*schema.Table, error) {
	return r.catalog.GetTable(ctx, name, r.validate)
}

func (r *Raw) Describe(ctx context.Context, name string) (string, error) {
	ok, err := Supports(ctx, r, name)
	if err != nil {
		return "", err
	}
	if !ok {
		available, _ := r.ListAvailable(ctx)
		return "", &schema.TableNotFoundError{Name: name, Available: available}
	}
	return "Raw MDB table: " + name, nil
}
