//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/merlindb"
)

func TestSQLiteCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "genisys.db")

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create SQLite database: %v", err)
	}
	for _, stmt := range fixtureStatements(quoteDouble) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to seed SQLite: %v\n%s", err, stmt)
		}
	}
	conn.Close()

	d, err := merlindb.Open(ctx, "sqlite://"+path, nil)
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	defer d.Close()

	verifyCatalog(t, d)
	verifyCSVExport(t, d)
}
