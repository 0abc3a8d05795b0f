package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Empty(t, cfg.OverridesPath)
	assert.Equal(t, "Drammen", cfg.Municipality)
	assert.Equal(t, "https://data.brreg.no/enhetsregisteret/api/enheter", cfg.BrregBaseURL)
	assert.Equal(t, "https://ws.geonorge.no/adresser/v1/sok", cfg.AddressAPIURL)
	assert.Equal(t, "https://ws.geonorge.no/stedsnavn/v1/sted", cfg.PlaceAPIURL)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.NominatimBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.RegistryDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.GeocodeDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.PropertyGeocodeDelay)
	assert.Equal(t, 1100*time.Millisecond, cfg.VerifyDelay)
	assert.Equal(t, 0.4, cfg.MatchThreshold)
	assert.Equal(t, 10, cfg.RegistryPageSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/sundland")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_ADDR", ":9090")
	t.Setenv("OVERRIDES_PATH", "/etc/sundland/overrides.json")
	t.Setenv("MUNICIPALITY", "Lier")
	t.Setenv("VERIFY_DELAY", "2s")
	t.Setenv("MATCH_THRESHOLD", "0.6")
	t.Setenv("REGISTRY_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/sundland", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, "/etc/sundland/overrides.json", cfg.OverridesPath)
	assert.Equal(t, "Lier", cfg.Municipality)
	assert.Equal(t, 2*time.Second, cfg.VerifyDelay)
	assert.Equal(t, 0.6, cfg.MatchThreshold)
	assert.Equal(t, 25, cfg.RegistryPageSize)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("VERIFY_DELAY", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "VERIFY_DELAY")
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "1.5")

	_, err := Load()
	assert.ErrorContains(t, err, "MATCH_THRESHOLD")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("REGISTRY_PAGE_SIZE", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "REGISTRY_PAGE_SIZE")
}
