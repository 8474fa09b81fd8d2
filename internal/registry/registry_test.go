package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKeyedByTableName(t *testing.T) {
	r := Default()

	want := []string{
		"AreaChannelLoads", "AreaChannels", "AreaNames", "Comms",
		"GeniSysButtonFunctions", "GeniSysObjects", "GeniSysPanels",
		"GenisysZones", "Phys_ChannelAlloc", "Phys_Dimmers", "Phys_Modules",
	}
	assert.Equal(t, want, r.Tables())

	s, ok := r.Lookup("Phys_Dimmers")
	require.True(t, ok)
	assert.Equal(t, "Dimmer", s.Name)

	_, ok = r.Lookup("Dimmer")
	assert.False(t, ok, "record type names are not table names")
	_, ok = r.Lookup("phys_dimmers")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestNewRejectsDuplicates(t *testing.T) {
	a := &Schema{Name: "A", Table: "T", Fields: []Field{{Name: "id", Type: Int}}}
	b := &Schema{Name: "B", Table: "T", Fields: []Field{{Name: "id", Type: Int}}}

	_, err := New(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")

	dup := &Schema{Name: "C", Table: "U", Fields: []Field{
		{Name: "a", Column: "X", Type: Int},
		{Name: "b", Column: "X", Type: Int},
	}}
	_, err = New(dup)
	require.Error(t, err)
}

func TestNilRegistryLookup(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("Phys_Dimmers")
	assert.False(t, ok)
	assert.Empty(t, r.Tables())
}

func TestSchemaCoerce(t *testing.T) {
	s, _ := Default().Lookup("AreaNames")

	tests := []struct {
		name    string
		record  map[string]any
		want    map[string]any
		wantErr string
	}{
		{
			name:   "normalizes and applies defaults",
			record: map[string]any{"Area": int32(4), "AreaName": nil, "Timeout": "30", "Zone_ID": 2.0, "Extra": "kept elsewhere"},
			want:   map[string]any{"Area": int64(4), "AreaName": "", "Timeout": int64(30), "Zone_ID": int64(2)},
		},
		{
			name:    "required field null",
			record:  map[string]any{"Area": nil},
			wantErr: "area_id (column Area): value is required",
		},
		{
			name:    "required field absent",
			record:  map[string]any{"AreaName": "Lobby"},
			wantErr: "value is required",
		},
		{
			name:    "unconvertible value",
			record:  map[string]any{"Area": "abc"},
			wantErr: "cannot convert string abc to int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Coerce(tt.record)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceCollectsEveryFieldError(t *testing.T) {
	s, _ := Default().Lookup("GenisysZones")

	_, err := s.Coerce(map[string]any{"Zone_ID": "x", "Zone": 5})
	require.Error(t, err)

	var rec RecordError
	require.True(t, errors.As(err, &rec))
	assert.Len(t, rec, 2)
	assert.Equal(t, "zone_id", rec[0].Field)
	assert.Equal(t, "Zone", rec[1].Column)
}

func TestFieldSourceColumn(t *testing.T) {
	assert.Equal(t, "Dimmer_ID", Field{Name: "dimmer_id", Column: "Dimmer_ID"}.SourceColumn())
	assert.Equal(t, "hostname", Field{Name: "hostname"}.SourceColumn())
}
