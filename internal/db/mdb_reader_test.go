package db

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/merlindb/internal/schema"
)

const zonesSchema = `-- ----------------------------------------------------------
-- MDB Tools - A library for reading MS Access database files
-- ----------------------------------------------------------

CREATE TABLE [GenisysZones]
 (
	[Zone_ID]			Long Integer NOT NULL,
	[Zone]			Text (50),
	[Created]			DateTime,
	[Rate]			Currency,
	[Active]			Boolean NOT NULL,
	[Guid]			Replication ID,
	[Icon]			OLE (255)
);
`

const zonesExport = `Zone_ID,Zone,Created,Rate,Active,Guid,Icon
1,"North Wing","2023-05-14 10:00:00",12.3400,1,"{6BA7B810-9DAD-11D1-80B4-00C04FD430C8}",CAFE
2,"Say ""hi""",,,0,,
3
`

// fakeTools answers mdbtools invocations from canned output.
type fakeTools struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeTools) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	out, ok := f.outputs[name]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return []byte(out), nil
}

func newFakeClient(t *testing.T, outputs map[string]string) (*MDBClient, *fakeTools) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.mdb")
	require.NoError(t, os.WriteFile(path, []byte("jet"), 0o644))

	tools := &fakeTools{outputs: outputs}
	client, err := newMDBClient(context.Background(), path, tools.run)
	require.NoError(t, err)
	return client, tools
}

func TestNewMDBClient(t *testing.T) {
	client, _ := newFakeClient(t, map[string]string{"mdb-ver": "JET4\n"})
	assert.Equal(t, "JET4", client.Version())

	_, err := newMDBClient(context.Background(), filepath.Join(t.TempDir(), "missing.mdb"), (&fakeTools{}).run)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "site.mdb")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err = newMDBClient(context.Background(), path, (&fakeTools{}).run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mdbtools is not installed")
}

func TestMDBReaderListTables(t *testing.T) {
	client, tools := newFakeClient(t, map[string]string{
		"mdb-ver":    "JET4",
		"mdb-tables": "Phys_Dimmers\nAreaNames\n\nComms\nAreaNames\n",
	})
	r := NewMDBReader(client)

	names, err := r.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AreaNames", "Comms", "Phys_Dimmers"}, names)
	assert.Contains(t, tools.calls, "mdb-tables -1 "+client.Path())
}

func TestMDBReaderKeepsSurroundingSpaces(t *testing.T) {
	client, tools := newFakeClient(t, map[string]string{
		"mdb-ver":    "JET4",
		"mdb-tables": "Zones \r\n Old Panels\r\nComms\r\n",
		"mdb-schema": "CREATE TABLE [Zones ]\n (\n\t[Zone_ID]\t\t\tLong Integer\n);\n",
		"mdb-export": "Zone_ID\n1\n",
	})
	r := NewMDBReader(client)

	names, err := r.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{" Old Panels", "Comms", "Zones "}, names)

	tbl, err := r.DecodeTable(context.Background(), "Zones ")
	require.NoError(t, err)
	assert.Equal(t, "Zones ", tbl.Name)
	assert.Contains(t, tools.calls, "mdb-schema -T Zones  "+client.Path()+" access")
}

func TestMDBReaderClose(t *testing.T) {
	client, _ := newFakeClient(t, map[string]string{"mdb-ver": "JET4"})

	var r CatalogReader = NewMDBReader(client)
	assert.NoError(t, r.Close())
}

func TestMDBReaderDecodeTable(t *testing.T) {
	client, _ := newFakeClient(t, map[string]string{
		"mdb-ver":    "JET4",
		"mdb-schema": zonesSchema,
		"mdb-export": zonesExport,
	})
	r := NewMDBReader(client)

	tbl, err := r.DecodeTable(context.Background(), "GenisysZones")
	require.NoError(t, err)

	assert.Equal(t, []string{"Zone_ID", "Zone", "Created", "Rate", "Active", "Guid", "Icon"}, tbl.ColumnNames())
	require.Equal(t, 3, tbl.RowCount())

	assert.Equal(t, int32(1), tbl.Value(0, 0))
	assert.Equal(t, "North Wing", tbl.Value(1, 0))
	assert.Equal(t, time.Date(2023, 5, 14, 10, 0, 0, 0, time.UTC), tbl.Value(2, 0))
	assert.True(t, decimal.RequireFromString("12.34").Equal(tbl.Value(3, 0).(decimal.Decimal)))
	assert.Equal(t, true, tbl.Value(4, 0))
	assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), tbl.Value(5, 0))
	assert.Equal(t, []byte{0xCA, 0xFE}, tbl.Value(6, 0))

	assert.Equal(t, `Say "hi"`, tbl.Value(1, 1))
	assert.Nil(t, tbl.Value(2, 1), "empty field is null")
	assert.Equal(t, false, tbl.Value(4, 1))

	assert.Equal(t, int32(3), tbl.Value(0, 2))
	assert.Nil(t, tbl.Value(1, 2), "short record pads with null")
	for _, col := range tbl.Columns {
		assert.Len(t, col.Values, 3)
	}
}

func TestMDBReaderDecodeFailure(t *testing.T) {
	client, _ := newFakeClient(t, map[string]string{
		"mdb-ver":    "JET4",
		"mdb-schema": zonesSchema,
		"mdb-export": "Zone_ID\nnot-a-number\n",
	})

	_, err := NewMDBReader(client).DecodeTable(context.Background(), "GenisysZones")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column Zone_ID")
}

func TestMDBReaderHonoursCancelledContext(t *testing.T) {
	client, tools := newFakeClient(t, map[string]string{"mdb-ver": "JET4", "mdb-tables": "A\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMDBReader(client).ListTables(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, tools.calls, 1, "only mdb-ver ran")
}

func TestParseMDBSchema(t *testing.T) {
	defs := parseMDBSchema([]byte(zonesSchema))

	want := []columnDef{
		{"Zone_ID", schema.TypeInt32},
		{"Zone", schema.TypeText},
		{"Created", schema.TypeDateTime},
		{"Rate", schema.TypeMoney},
		{"Active", schema.TypeBoolean},
		{"Guid", schema.TypeGUID},
		{"Icon", schema.TypeOLE},
	}
	assert.Equal(t, want, defs)
}

func TestParseMDBValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     schema.ColumnType
		raw     string
		want    any
		wantErr bool
	}{
		{"empty is null", schema.TypeText, "", nil, false},
		{"byte", schema.TypeByte, "200", uint8(200), false},
		{"byte overflow", schema.TypeByte, "300", nil, true},
		{"integer", schema.TypeInt16, "-12", int16(-12), false},
		{"single", schema.TypeFloat32, "1.5", float32(1.5), false},
		{"double", schema.TypeFloat64, "2.5e+01", float64(25), false},
		{"memo", schema.TypeMemo, "line\nbreak", "line\nbreak", false},
		{"default date format", schema.TypeDateTime, "05/14/23 10:00:00", time.Date(2023, 5, 14, 10, 0, 0, 0, time.UTC), false},
		{"bad boolean", schema.TypeBoolean, "maybe", nil, true},
		{"unknown type stays text", schema.TypeUnknown, "x", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMDBValue(tt.typ, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
