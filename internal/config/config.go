// Package config loads pipeline settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	DataDir   string
	LogLevel  string
	LogFormat string

	// MetricsAddr enables the metrics/health HTTP listener when non-empty.
	// Batch runs are usually headless, so the default is off.
	MetricsAddr string

	// OverridesPath points at an optional JSON file layering extra manual
	// coordinates on top of the built-in tables.
	OverridesPath string

	Municipality string
	UserAgent    string

	BrregBaseURL     string
	AddressAPIURL    string
	PlaceAPIURL      string
	NominatimBaseURL string

	HTTPTimeout time.Duration

	// Per-service politeness delays between requests.
	RegistryDelay        time.Duration
	GeocodeDelay         time.Duration
	PropertyGeocodeDelay time.Duration
	VerifyDelay          time.Duration

	MatchThreshold   float64
	RegistryPageSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	httpTimeout, err := parseDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	registryDelay, err := parseDuration("REGISTRY_DELAY", "200ms")
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := parseDuration("GEOCODE_DELAY", "200ms")
	if err != nil {
		return nil, err
	}
	propertyDelay, err := parseDuration("PROPERTY_GEOCODE_DELAY", "300ms")
	if err != nil {
		return nil, err
	}
	verifyDelay, err := parseDuration("VERIFY_DELAY", "1100ms")
	if err != nil {
		return nil, err
	}

	threshold, err := parseFloat("MATCH_THRESHOLD", "0.4")
	if err != nil {
		return nil, err
	}
	pageSize, err := parseInt("REGISTRY_PAGE_SIZE", "10")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:       envOrDefault("DATA_DIR", "data"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "text"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		OverridesPath: os.Getenv("OVERRIDES_PATH"),

		Municipality: envOrDefault("MUNICIPALITY", "Drammen"),
		UserAgent:    envOrDefault("USER_AGENT", "SundlandPipeline/1.0 (urban development mapping)"),

		BrregBaseURL:     envOrDefault("BRREG_URL", "https://data.brreg.no/enhetsregisteret/api/enheter"),
		AddressAPIURL:    envOrDefault("ADDRESS_API_URL", "https://ws.geonorge.no/adresser/v1/sok"),
		PlaceAPIURL:      envOrDefault("PLACE_API_URL", "https://ws.geonorge.no/stedsnavn/v1/sted"),
		NominatimBaseURL: envOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),

		HTTPTimeout:          httpTimeout,
		RegistryDelay:        registryDelay,
		GeocodeDelay:         geocodeDelay,
		PropertyGeocodeDelay: propertyDelay,
		VerifyDelay:          verifyDelay,

		MatchThreshold:   threshold,
		RegistryPageSize: pageSize,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return nil, errors.New("MATCH_THRESHOLD must be between 0 and 1")
	}
	if cfg.RegistryPageSize < 1 {
		return nil, errors.New("REGISTRY_PAGE_SIZE must be at least 1")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(envOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
