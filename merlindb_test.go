package merlindb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/merlindb/internal/schema"
	"github.com/tordrt/merlindb/internal/testutil"
)

func openSample(t *testing.T, opts *Options) (*Database, *testutil.MemoryReader) {
	t.Helper()
	r := testutil.SampleReader()
	return NewDatabase(r, "sample.mdb", opts), r
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantType string
		wantConn string
		wantErr  bool
	}{
		{"bare path", "data/project.mdb", "mdb", "data/project.mdb", false},
		{"mdb scheme", "mdb:///tmp/project.accdb", "mdb", "/tmp/project.accdb", false},
		{"sqlite", "sqlite://test.db", "sqlite", "test.db", false},
		{"duckdb", "duckdb://copy.duckdb", "duckdb", "copy.duckdb", false},
		{"postgres", "postgres://u:p@localhost/db", "postgres", "postgres://u:p@localhost/db", false},
		{"postgresql", "postgresql://u:p@localhost/db", "postgres", "postgresql://u:p@localhost/db", false},
		{"mysql", "mysql://u:p@tcp(localhost:3306)/db", "mysql", "u:p@tcp(localhost:3306)/db", false},
		{"unknown scheme", "oracle://db", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotConn, err := parseDatabaseURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantConn, gotConn)
		})
	}
}

func TestOpenFailuresAreNotOpenable(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "missing.db")

	for _, url := range []string{"", "oracle://db", "sqlite://" + missing, missing} {
		_, err := Open(ctx, url, nil)
		require.Error(t, err, url)
		assert.ErrorIs(t, err, ErrFileNotOpenable, url)

		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		assert.Equal(t, url, openErr.Source)
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, "sqlite://whatever.db", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := testutil.SQLiteFixture(t)

	d, err := Open(ctx, "sqlite://"+path, nil)
	require.NoError(t, err)
	defer d.Close()

	tables, err := d.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Config", "Events", "GenisysZones", "Phys_Dimmers"}, tables)

	summary, err := d.GetDatabaseSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecords, summary.TotalRecords)
	assert.Equal(t, testutil.SampleCoverage, summary.ModelCoverage)
	assert.Equal(t, path, summary.FilePath)

	res, err := d.ValidateTable(ctx, "Phys_Dimmers")
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Row)
}

func TestListTablesIsCached(t *testing.T) {
	ctx := context.Background()
	d, r := openSample(t, nil)

	first, err := d.ListTables(ctx)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := d.ListTables(ctx)
	require.NoError(t, err)
	_, _ = d.TableExists(ctx, "Config")

	assert.Equal(t, []string{"Config", "Events", "GenisysZones", "Phys_Dimmers"}, second)
	assert.Equal(t, 1, r.ListCalls)
}

// listOnlyReader returns its names exactly as given.
type listOnlyReader struct {
	names []string
}

func (r *listOnlyReader) ListTables(context.Context) ([]string, error) {
	return r.names, nil
}

func (r *listOnlyReader) DecodeTable(_ context.Context, name string) (*schema.Table, error) {
	return &schema.Table{Name: name}, nil
}

func (r *listOnlyReader) Close() error { return nil }

func TestListTablesSortsAndDedupes(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{name: "unsorted with duplicates", names: []string{"Zeta", "Alpha", "Alpha"}, want: []string{"Alpha", "Zeta"}},
		{name: "case variants are distinct", names: []string{"zones", "Zones", "zones"}, want: []string{"Zones", "zones"}},
		{name: "empty names dropped", names: []string{"", "Config", ""}, want: []string{"Config"}},
		{name: "nil list", names: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDatabase(&listOnlyReader{names: tt.names}, "custom", nil)

			got, err := d.ListTables(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableExistsIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	d, _ := openSample(t, nil)

	ok, err := d.TableExists(ctx, "Config")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.TableExists(ctx, "config")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetTableNotFound(t *testing.T) {
	d, _ := openSample(t, nil)

	_, err := d.GetTable(context.Background(), "DoesNotExist", false)

	var notFound *TableNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DoesNotExist", notFound.Name)
	assert.Equal(t, "table 'DoesNotExist' not found. Available tables: Config, Events, GenisysZones, Phys_Dimmers", err.Error())
}

func TestGetTableDecodeFailure(t *testing.T) {
	cause := errors.New("corrupt page")
	r := testutil.SampleReader().FailDecode("Broken", cause)
	d := NewDatabase(r, "sample.mdb", nil)

	_, err := d.GetTable(context.Background(), "Broken", false)

	var decodeErr *TableDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "Broken", decodeErr.Table)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to parse table 'Broken': corrupt page", err.Error())
}

func TestGetTableValidate(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	d, _ := openSample(t, &Options{Logger: slog.New(slog.NewJSONHandler(&logs, nil))})

	raw, err := d.GetTable(ctx, "Phys_Dimmers", false)
	require.NoError(t, err)
	validated, err := d.GetTable(ctx, "Phys_Dimmers", true)
	require.NoError(t, err)

	assert.Equal(t, raw.ColumnNames(), validated.ColumnNames())
	for _, col := range validated.Columns {
		assert.Len(t, col.Values, raw.RowCount(), col.Name)
	}

	// valid rows are normalized
	assert.Equal(t, int64(1), validated.Value(0, 0))
	assert.Equal(t, int64(2), validated.Value(2, 2))
	// the failing row keeps its raw values
	assert.Equal(t, int32(2), validated.Value(0, 1))
	assert.Nil(t, validated.Value(1, 1))
	// unreferenced columns pass through
	assert.Equal(t, "Main", validated.Value(4, 0))

	assert.Contains(t, logs.String(), `"msg":"row failed validation"`)
	assert.Contains(t, logs.String(), `"row":1`)
	assert.Contains(t, logs.String(), "value is required")
}

func TestGetTableWithoutSchemaIgnoresValidate(t *testing.T) {
	ctx := context.Background()
	d, _ := openSample(t, nil)

	raw, err := d.GetTable(ctx, "Config", false)
	require.NoError(t, err)
	validated, err := d.GetTable(ctx, "Config", true)
	require.NoError(t, err)

	assert.Equal(t, raw, validated)
}

func TestGetTableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d, _ := openSample(t, nil)

	first, err := d.GetTable(ctx, "GenisysZones", false)
	require.NoError(t, err)
	first.Columns[1].Values[0] = "changed"

	second, err := d.GetTable(ctx, "GenisysZones", false)
	require.NoError(t, err)
	assert.Equal(t, "North", second.Value(1, 0))

	third, err := d.GetTable(ctx, "GenisysZones", false)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestGetTableInfo(t *testing.T) {
	ctx := context.Background()
	r := testutil.SampleReader().FailDecode("Broken", errors.New("bad header"))
	d := NewDatabase(r, "sample.mdb", nil)

	tests := []struct {
		name  string
		table string
		want  *TableInfo
	}{
		{
			name:  "with schema",
			table: "Phys_Dimmers",
			want: &TableInfo{
				Name:        "Phys_Dimmers",
				Columns:     []string{"Dimmer_ID", "LoadController", "Zone_ID", "BoxNumber", "Notes"},
				ColumnCount: 5,
				RecordCount: 3,
				HasSchema:   true,
			},
		},
		{
			name:  "empty table",
			table: "Events",
			want:  &TableInfo{Name: "Events", Columns: []string{"ID", "When"}, ColumnCount: 2},
		},
		{
			name:  "decode failure degrades",
			table: "Broken",
			want: &TableInfo{
				Name:    "Broken",
				Columns: []string{},
				Error:   "failed to parse table 'Broken': bad header",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.GetTableInfo(ctx, tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := d.GetTableInfo(ctx, "Nope")
	var notFound *TableNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGetDatabaseSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("sample", func(t *testing.T) {
		d, _ := openSample(t, nil)
		got, err := d.GetDatabaseSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, &Summary{
			FilePath:         "sample.mdb",
			TotalTables:      testutil.SampleTables,
			TablesWithData:   testutil.SampleWithData,
			TablesWithModels: testutil.SampleWithSchemas,
			TotalRecords:     testutil.SampleRecords,
			ModelCoverage:    testutil.SampleCoverage,
		}, got)
	})

	t.Run("failing tables are skipped", func(t *testing.T) {
		r := testutil.SampleReader().FailDecode("GenisysZones", errors.New("boom"))
		d := NewDatabase(r, "sample.mdb", nil)

		got, err := d.GetDatabaseSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, got.TotalTables)
		assert.Equal(t, 5, got.TotalRecords)
		assert.Equal(t, 1, got.TablesWithModels)
		assert.Equal(t, "25.0%", got.ModelCoverage)
	})

	t.Run("no tables", func(t *testing.T) {
		d := NewDatabase(testutil.NewMemoryReader(), "empty.mdb", nil)
		got, err := d.GetDatabaseSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0%", got.ModelCoverage)
		assert.Zero(t, got.TotalTables)
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	d, _ := openSample(t, nil)
	dir := t.TempDir()

	res, err := d.Export(ctx, filepath.Join(dir, "genisys"), &ExportOptions{Tables: []string{"Geni*", "config"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Config", "GenisysZones"}, res.TableNames)
	assert.Equal(t, []string{filepath.Join(dir, "genisys.json")}, res.OutputFiles)
	assert.Equal(t, "JSON", res.Format)

	raw, err := os.ReadFile(res.OutputFiles[0])
	require.NoError(t, err)
	var doc struct {
		TableCount   int `json:"table_count"`
		TotalRecords int `json:"total_records"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.TableCount)
	assert.Equal(t, 4, doc.TotalRecords)

	_, err = d.Export(ctx, filepath.Join(dir, "x"), &ExportOptions{Tables: []string{"nothing*"}})
	var noMatch *NoTablesMatchedError
	assert.ErrorAs(t, err, &noMatch)

	_, err = d.Export(ctx, filepath.Join(dir, "x"), &ExportOptions{Format: "xml"})
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestExportPlaceholderMode(t *testing.T) {
	d, _ := openSample(t, nil)

	_, err := d.Export(context.Background(), filepath.Join(t.TempDir(), "areas.json"),
		&ExportOptions{Mode: "dynalite", Tables: []string{"areas"}})
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = d.Export(context.Background(), filepath.Join(t.TempDir(), "x.json"), &ExportOptions{Mode: "bogus"})
	assert.ErrorContains(t, err, "Available modes: raw, dynalite, device")
}

func TestExportSkipsUnreadableTables(t *testing.T) {
	ctx := context.Background()
	r := testutil.SampleReader().FailDecode("Config", errors.New("corrupt page"))
	d := NewDatabase(r, "sample.mdb", nil)

	tests := []struct {
		name      string
		separate  bool
		wantFiles int
	}{
		{name: "combined", separate: false, wantFiles: 1},
		{name: "separate", separate: true, wantFiles: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Export(ctx, filepath.Join(t.TempDir(), "dump.json"),
				&ExportOptions{Tables: []string{"Config", "Events", "GenisysZones"}, Separate: tt.separate})
			require.NoError(t, err)

			assert.Equal(t, []string{"Events", "GenisysZones"}, res.TableNames)
			assert.Equal(t, 2, res.TablesExported)
			assert.Len(t, res.OutputFiles, tt.wantFiles)
			assert.Equal(t, map[string]string{"Config": "failed to parse table 'Config': corrupt page"}, res.Failed)
		})
	}

	t.Run("single table stays strict", func(t *testing.T) {
		_, err := d.Export(ctx, filepath.Join(t.TempDir(), "config.json"), &ExportOptions{Tables: []string{"Config"}})
		var decodeErr *TableDecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}

func TestStringAndClose(t *testing.T) {
	d, r := openSample(t, nil)

	assert.Equal(t, `merlindb.Database("sample.mdb", 4 tables)`, d.String())
	require.NoError(t, d.Close())
	assert.True(t, r.Closed)

	r2 := testutil.NewMemoryReader()
	r2.ListErr = errors.New("io")
	assert.Equal(t, `merlindb.Database("x.mdb", error)`, NewDatabase(r2, "x.mdb", nil).String())
}

func TestConvenienceFunctions(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://" + testutil.SQLiteFixture(t)

	tables, err := ListTables(ctx, url)
	require.NoError(t, err)
	assert.Len(t, tables, testutil.SampleTables)

	info, err := GetDatabaseInfo(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleWithSchemas, info.TablesWithModels)

	out := filepath.Join(t.TempDir(), "zones.csv")
	res, err := QuickExport(ctx, url, out, "csv", []string{"GenisysZones"})
	require.NoError(t, err)
	assert.Equal(t, []string{out}, res.OutputFiles)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Zone_ID,Zone\n1,North\n2,South\n", string(raw))
}
