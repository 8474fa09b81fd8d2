//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tordrt/merlindb"
)

// fixtureTables are created in every database under test.
var fixtureTables = []string{"Config", "GenisysZones", "Phys_Dimmers"}

// fixtureStatements seeds the GeniSys tables. quote renders an identifier in
// the dialect of the target database.
func fixtureStatements(quote func(string) string) []string {
	dimmers, zones, config := quote("Phys_Dimmers"), quote("GenisysZones"), quote("Config")
	return []string{
		"DROP TABLE IF EXISTS " + dimmers,
		"DROP TABLE IF EXISTS " + zones,
		"DROP TABLE IF EXISTS " + config,
		"CREATE TABLE " + dimmers + " (" + quote("Dimmer_ID") + " INTEGER, " + quote("LoadController") + " VARCHAR(50), " +
			quote("Zone_ID") + " INTEGER, " + quote("BoxNumber") + " SMALLINT, " + quote("Notes") + " TEXT)",
		"INSERT INTO " + dimmers + " VALUES (1, 'DLE1205', 1, 1, 'Main'), (2, NULL, 1, 2, NULL), (3, 'DLE1205', 2, 3, NULL)",
		"CREATE TABLE " + zones + " (" + quote("Zone_ID") + " INTEGER, " + quote("Zone") + " VARCHAR(50))",
		"INSERT INTO " + zones + " VALUES (1, 'North'), (2, 'South')",
		"CREATE TABLE " + config + " (" + quote("Key") + " VARCHAR(50), " + quote("Value") + " TEXT)",
		"INSERT INTO " + config + " VALUES ('site', 'Main Hall'), ('version', '4.2')",
	}
}

func quoteDouble(name string) string   { return `"` + name + `"` }
func quoteBacktick(name string) string { return "`" + name + "`" }

// verifyCatalog checks listing, summary and validation of the fixture tables.
func verifyCatalog(t *testing.T, d *merlindb.Database) {
	t.Helper()
	ctx := context.Background()

	tables, err := d.ListTables(ctx)
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	for _, name := range fixtureTables {
		if !slices.Contains(tables, name) {
			t.Errorf("Expected table %s not found in %v", name, tables)
		}
	}

	for name, want := range map[string]int{"Phys_Dimmers": 3, "GenisysZones": 2, "Config": 2} {
		info, err := d.GetTableInfo(ctx, name)
		if err != nil {
			t.Fatalf("Failed to get info for %s: %v", name, err)
		}
		if info.Error != "" {
			t.Errorf("Table %s failed to decode: %s", name, info.Error)
		}
		if info.RecordCount != want {
			t.Errorf("Table %s: expected %d records, got %d", name, want, info.RecordCount)
		}
	}

	res, err := d.ValidateTable(ctx, "Phys_Dimmers")
	if err != nil {
		t.Fatalf("Failed to validate Phys_Dimmers: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 1 {
		t.Errorf("Expected row 1 to fail validation, got %+v", res.Errors)
	}

	zones, err := d.GetTable(ctx, "GenisysZones", true)
	if err != nil {
		t.Fatalf("Failed to get GenisysZones: %v", err)
	}
	if got := zones.Value(0, 1); got != int64(2) {
		t.Errorf("Expected Zone_ID 2 as int64, got %T %v", got, got)
	}
}

// verifyCSVExport exports GenisysZones and compares the file contents.
func verifyCSVExport(t *testing.T, d *merlindb.Database) {
	t.Helper()

	out := filepath.Join(t.TempDir(), "zones.csv")
	res, err := d.Export(context.Background(), out, &merlindb.ExportOptions{
		Format: "csv",
		Tables: []string{"GenisysZones"},
	})
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if res.TablesExported != 1 {
		t.Errorf("Expected 1 table exported, got %d", res.TablesExported)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if want := "Zone_ID,Zone\n1,North\n2,South\n"; string(data) != want {
		t.Errorf("Unexpected CSV export:\n%s\nwant:\n%s", data, want)
	}
}
