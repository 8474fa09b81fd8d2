package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/merlindb/internal/schema"
)

// Sample catalog: two tables with registered schemas, one plain table and one
// empty table.
//
//	Phys_Dimmers   3 rows, row 1 lacks the required LoadController
//	GenisysZones   2 rows
//	Config         2 rows, no schema
//	Events         0 rows, no schema
const (
	SampleTables       = 4
	SampleRecords      = 7
	SampleWithData     = 3
	SampleWithSchemas  = 2
	SampleCoverage     = "50.0%"
	SampleInvalidTable = "Phys_Dimmers"
	SampleInvalidRow   = 1
)

// DimmersTable is Phys_Dimmers with one row failing validation and one row
// holding a float that coerces to an integer.
func DimmersTable() *schema.Table {
	return &schema.Table{
		Name: "Phys_Dimmers",
		Columns: []schema.Column{
			{Name: "Dimmer_ID", Type: schema.TypeInt32, Values: []any{int32(1), int32(2), int32(3)}},
			{Name: "LoadController", Type: schema.TypeText, Values: []any{"DLE1205", nil, "DLE1205"}},
			{Name: "Zone_ID", Type: schema.TypeInt32, Values: []any{int32(1), int32(1), float64(2)}},
			{Name: "BoxNumber", Type: schema.TypeInt16, Values: []any{int16(1), int16(2), int16(3)}},
			{Name: "Notes", Type: schema.TypeMemo, Values: []any{"Main", nil, nil}},
		},
	}
}

// ZonesTable is a valid GenisysZones table.
func ZonesTable() *schema.Table {
	return &schema.Table{
		Name: "GenisysZones",
		Columns: []schema.Column{
			{Name: "Zone_ID", Type: schema.TypeInt32, Values: []any{int32(1), int32(2)}},
			{Name: "Zone", Type: schema.TypeText, Values: []any{"North", "South"}},
		},
	}
}

// ConfigTable has no registered schema.
func ConfigTable() *schema.Table {
	return &schema.Table{
		Name: "Config",
		Columns: []schema.Column{
			{Name: "Key", Type: schema.TypeText, Values: []any{"site", "version"}},
			{Name: "Value", Type: schema.TypeMemo, Values: []any{"Main Hall", "4.2"}},
		},
	}
}

// EventsTable has columns but no rows.
func EventsTable() *schema.Table {
	return &schema.Table{
		Name: "Events",
		Columns: []schema.Column{
			{Name: "ID", Type: schema.TypeInt32, Values: []any{}},
			{Name: "When", Type: schema.TypeDateTime, Values: []any{}},
		},
	}
}

// SampleTableSet returns fresh copies of the sample tables.
func SampleTableSet() []*schema.Table {
	return []*schema.Table{DimmersTable(), ZonesTable(), ConfigTable(), EventsTable()}
}

// SampleReader serves the sample tables from memory.
func SampleReader() *MemoryReader {
	return NewMemoryReader(SampleTableSet()...)
}

// SQLiteFixture writes the sample catalog to a SQLite file and returns its path.
func SQLiteFixture(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genisys.db")

	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE Phys_Dimmers (Dimmer_ID INTEGER, LoadController VARCHAR(50), Zone_ID INTEGER, BoxNumber SMALLINT, Notes TEXT)`,
		`INSERT INTO Phys_Dimmers VALUES (1, 'DLE1205', 1, 1, 'Main')`,
		`INSERT INTO Phys_Dimmers VALUES (2, NULL, 1, 2, NULL)`,
		`INSERT INTO Phys_Dimmers VALUES (3, 'DLE1205', 2, 3, NULL)`,
		`CREATE TABLE GenisysZones (Zone_ID INTEGER, Zone VARCHAR(50))`,
		`INSERT INTO GenisysZones VALUES (1, 'North'), (2, 'South')`,
		`CREATE TABLE Config (Key TEXT, Value TEXT)`,
		`INSERT INTO Config VALUES ('site', 'Main Hall'), ('version', '4.2')`,
		`CREATE TABLE Events (ID INTEGER, "When" DATETIME)`,
	}
	for _, stmt := range stmts {
		_, err := conn.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}
