package geocode

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaride/sundland-pipeline/internal/adapter/jsonfile"
	"github.com/justaride/sundland-pipeline/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMatchShoppingCenter(t *testing.T) {
	o := DefaultOverrides()

	tests := []struct {
		addr string
		want bool
	}{
		{"PROFESSOR SMITHS ALLE", true},
		{"PROFESSOR SMITHS ALLE, DRAMMEN", true},
		{"GULDLISTEN 35", false}, // street number means a regular building
		{"GULDLISTEN", true},
		{"PROFESSOR SMITHS ALLE 56", false},
		{"STORGATA 6 A", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			c, ok := o.MatchShoppingCenter(tt.addr)
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, domain.GulskogenSenter, c)
			}
		})
	}
}

func TestManualAddress(t *testing.T) {
	o := DefaultOverrides()

	c, ok := o.ManualAddress("LIERSTRANDA")
	require.True(t, ok)
	assert.Equal(t, domain.Coordinate{Lat: 59.7517, Lng: 10.2530}, c)

	_, ok = o.ManualAddress("TOLLBUGATA 1")
	assert.False(t, ok)
}

func TestLoadOverrides_MissingFileUsesDefaults(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.json"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultOverrides(), o)
}

func TestLoadOverrides_EmptyPathUsesDefaults(t *testing.T) {
	o, err := LoadOverrides("", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultOverrides(), o)
}

func TestLoadOverrides_FileLayersOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, jsonfile.Write(path, Overrides{
		ManualAddresses: map[string]domain.Coordinate{
			"tollbugata 1": {Lat: 59.7430, Lng: 10.2040},
			"LIERSTRANDA":  {Lat: 59.7500, Lng: 10.2500},
		},
	}))

	o, err := LoadOverrides(path, discardLogger())
	require.NoError(t, err)

	// New entry added with the key uppercased, existing entry replaced,
	// untouched tables keep their defaults.
	c, ok := o.ManualAddress("TOLLBUGATA 1")
	require.True(t, ok)
	assert.Equal(t, 59.7430, c.Lat)

	c, ok = o.ManualAddress("LIERSTRANDA")
	require.True(t, ok)
	assert.Equal(t, 59.7500, c.Lat)

	_, ok = o.ManualProperty("proffen-hageby")
	assert.True(t, ok)
}

func TestLoadOverrides_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, jsonfile.Write(path, "not an object"))

	_, err := LoadOverrides(path, discardLogger())
	assert.Error(t, err)
}
