package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/merlindb/internal/config"
	"github.com/tordrt/merlindb/internal/testutil"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDatabase, config.EnvDatabaseLegacy, config.EnvLogLevel, config.EnvFormat} {
		t.Setenv(key, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func fixtureURL(t *testing.T) string {
	t.Helper()
	return "sqlite://" + testutil.SQLiteFixture(t)
}

func TestCommands(t *testing.T) {
	clearEnv(t)
	db := fixtureURL(t)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		contains   []string
		excludes   []string
		wantStderr string
	}{
		{
			name:     "info",
			args:     []string{"info", db},
			contains: []string{"Database Summary", "Total Tables: 4", "Tables with Data: 3", "Total Records: 7", "Schema Coverage: 50.0%"},
			excludes: []string{"Table Details:"},
		},
		{
			name:     "info verbose",
			args:     []string{"info", db, "-v"},
			contains: []string{"Table Details:", "Table Name", "Phys_Dimmers", "GenisysZones"},
		},
		{
			name:     "tables",
			args:     []string{"tables", db},
			contains: []string{"Available Tables (4):", " 1. Config", " 4. Phys_Dimmers"},
			excludes: []string{"Filtered by pattern"},
		},
		{
			name:     "tables pattern",
			args:     []string{"tables", db, "--pattern", "Genisys*"},
			contains: []string{"Available Tables (1):", "GenisysZones", "Filtered by pattern: Genisys*"},
			excludes: []string{"Config"},
		},
		{
			name:     "tables pattern without match",
			args:     []string{"tables", db, "-p", "Nope*"},
			contains: []string{"No tables match pattern 'Nope*'"},
		},
		{
			name:     "tables info",
			args:     []string{"tables", db, "--info"},
			contains: []string{"Records", "Columns", "Validated", "Events"},
		},
		{
			name:       "tables bad pattern",
			args:       []string{"tables", db, "-p", "[Gen"},
			wantCode:   2,
			wantStderr: "Error:",
		},
		{
			name:     "inspect",
			args:     []string{"inspect", db, "GenisysZones"},
			contains: []string{"Table: GenisysZones", "Records: 2", "✓ Schema validation available", "Columns (2):", "Sample Data (first 2 records):", "North"},
		},
		{
			name:     "inspect limit",
			args:     []string{"inspect", db, "Config", "--limit", "1"},
			contains: []string{"○ Raw data only", "Sample Data (first 1 records):", "Main Hall"},
			excludes: []string{"4.2 "},
		},
		{
			name:     "inspect validate",
			args:     []string{"inspect", db, "Phys_Dimmers", "--validate"},
			contains: []string{"Validation errors (1 rows kept raw values):", "(null)"},
		},
		{
			name:     "inspect empty table",
			args:     []string{"inspect", db, "Events"},
			contains: []string{"Records: 0"},
			excludes: []string{"Sample Data"},
		},
		{
			name:       "inspect unknown table",
			args:       []string{"inspect", db, "zones"},
			wantCode:   1,
			contains:   []string{"Did you mean: GenisysZones?"},
			wantStderr: "Error: table 'zones' not found",
		},
		{
			name:       "inspect without table",
			args:       []string{"inspect"},
			wantCode:   2,
			wantStderr: "accepts between 1 and 2 arg(s)",
		},
		{
			name: "validate",
			args: []string{"validate", db},
			contains: []string{
				"Validation Results:",
				"✓ GenisysZones: 2 records validated",
				"⚠ Phys_Dimmers: 3 records validated, 1 rows failed",
				"○ Config: No schema available",
			},
		},
		{
			name:     "validate summary",
			args:     []string{"validate", db, "--summary"},
			contains: []string{"Validation Summary", "Validated Successfully: 2 tables (5 records)", "Rows Failing Validation: 1", "No Schema: 2 tables", "Validation Errors: 0 tables"},
			excludes: []string{"Validation Results:"},
		},
		{
			name:     "validate one table",
			args:     []string{"validate", db, "-t", "GenisysZones"},
			contains: []string{"✓ GenisysZones: 2 records validated"},
			excludes: []string{"Phys_Dimmers"},
		},
		{
			name:     "validate unknown table",
			args:     []string{"validate", db, "-t", "Nope"},
			contains: []string{"✗ Table 'Nope' not found"},
		},
		{
			name:     "version",
			args:     []string{"version"},
			contains: []string{"Version Info", "MerlinDB v1.0.0"},
		},
		{
			name:       "no database",
			args:       []string{"info"},
			wantCode:   2,
			wantStderr: "no database given",
		},
		{
			name:       "unopenable database",
			args:       []string{"info", filepath.Join(t.TempDir(), "missing.mdb")},
			wantCode:   1,
			wantStderr: "Error:",
		},
		{
			name:       "unknown command",
			args:       []string{"frobnicate"},
			wantCode:   2,
			wantStderr: "unknown command",
		},
		{
			name:       "unknown flag",
			args:       []string{"info", db, "--nope"},
			wantCode:   2,
			wantStderr: "unknown flag",
		},
		{
			name:       "bad log level",
			args:       []string{"--log-level", "loud", "info", db},
			wantCode:   2,
			wantStderr: "loud",
		},
		{
			name:       "browse bad mode",
			args:       []string{"browse", db, "--mode", "bogus"},
			wantCode:   2,
			wantStderr: "unsupported mode: bogus",
		},
		{
			name:       "browse without terminal",
			args:       []string{"browse", db},
			wantCode:   1,
			wantStderr: "interactive terminal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)

			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, stdout, unwanted)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func TestExport(t *testing.T) {
	clearEnv(t)
	db := fixtureURL(t)

	t.Run("json", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.json")

		code, stdout, stderr := runCLI(t, "export", db, out)
		require.Equal(t, 0, code, stderr)

		assert.Contains(t, stdout, "✓ Export completed successfully!")
		assert.Contains(t, stdout, "Format: JSON")
		assert.Contains(t, stdout, "Mode: Raw")
		assert.Contains(t, stdout, "Tables exported: 4")
		assert.Contains(t, stdout, "→ "+out)

		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))
	})

	t.Run("csv separate", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "out.csv")

		code, stdout, stderr := runCLI(t, "export", db, out, "-f", "CSV", "-t", "Genisys*", "-t", "Config", "--separate")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Output files: 2")

		raw, err := os.ReadFile(filepath.Join(dir, "out_GenisysZones.csv"))
		require.NoError(t, err)
		assert.Equal(t, "Zone_ID,Zone\n1,North\n2,South\n", string(raw))
		assert.FileExists(t, filepath.Join(dir, "out_Config.csv"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.bin")

		code, _, stderr := runCLI(t, "export", db, out, "--format", "bin")
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, `unsupported format "bin"`)
		assert.NoFileExists(t, out)
	})

	t.Run("no tables matched", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.json")

		code, _, stderr := runCLI(t, "export", db, out, "-t", "Nope*")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "export failed")
	})

	t.Run("placeholder mode", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "out.json")

		code, _, stderr := runCLI(t, "export", db, out, "--mode", "device")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "not implemented")
	})
}

func TestEnvironmentAndConfig(t *testing.T) {
	t.Run("database from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(config.EnvDatabase, fixtureURL(t))

		code, stdout, stderr := runCLI(t, "tables")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Available Tables (4):")
	})

	t.Run("legacy database variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(config.EnvDatabaseLegacy, fixtureURL(t))

		code, _, stderr := runCLI(t, "info")
		assert.Equal(t, 0, code, stderr)
	})

	t.Run("format from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(config.EnvFormat, "yaml")
		out := filepath.Join(t.TempDir(), "out.yaml")

		code, stdout, stderr := runCLI(t, "export", fixtureURL(t), out, "-t", "GenisysZones")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Format: YAML")
	})

	t.Run("config file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "merlindb.yaml")
		cfg := "database: " + fixtureURL(t) + "\nformat: csv\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
		out := filepath.Join(dir, "zones.csv")

		code, _, stderr := runCLI(t, "--config", cfgPath, "export", out, "-t", "GenisysZones")
		require.Equal(t, 0, code, stderr)

		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "Zone_ID,Zone\n1,North\n2,South\n", string(raw))
	})

	t.Run("invalid config file", func(t *testing.T) {
		clearEnv(t)
		cfgPath := filepath.Join(t.TempDir(), "merlindb.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("format: bin\n"), 0o644))

		code, _, stderr := runCLI(t, "--config", cfgPath, "version")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "bin")
	})
}

func TestSplitDatabaseArg(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     int
		wantDB   string
		wantRest []string
	}{
		{name: "database and output", args: []string{"db.mdb", "out.json"}, want: 1, wantDB: "db.mdb", wantRest: []string{"out.json"}},
		{name: "output only", args: []string{"out.json"}, want: 1, wantDB: "", wantRest: []string{"out.json"}},
		{name: "database only", args: []string{"db.mdb"}, want: 0, wantDB: "db.mdb", wantRest: []string{}},
		{name: "nothing", args: []string{}, want: 0, wantDB: "", wantRest: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, rest := splitDatabaseArg(tt.args, tt.want)
			assert.Equal(t, tt.wantDB, db)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCount(tt.n))
		})
	}
}

func TestFormatFlag(t *testing.T) {
	f := formatFlag{value: "json"}
	assert.Equal(t, "format", f.Type())

	require.NoError(t, f.Set("XLSX"))
	assert.Equal(t, "xlsx", f.String())

	err := f.Set("docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Equal(t, "xlsx", f.String())
}

func TestCheckMark(t *testing.T) {
	assert.Equal(t, "✓", checkMark(true))
	assert.Equal(t, "○", checkMark(false))
}
