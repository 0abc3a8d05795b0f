// Package nominatim implements the independent geocoder used to
// cross-check coordinates produced by the main pipeline. Nominatim's usage
// policy requires an identifying User-Agent and at most one request per
// second, which is why the delay here is the longest in the pipeline.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
	"github.com/justaride/sundland-pipeline/internal/throttle"
)

// Config carries the endpoint and politeness settings for a Client.
type Config struct {
	BaseURL      string
	UserAgent    string
	QuerySuffix  string // appended to every address, e.g. ", Drammen, Norway"
	CountryCodes string
	Timeout      time.Duration
	Delay        time.Duration
	Clock        clockwork.Clock
}

// Client implements domain.AddressLookup using the OSM Nominatim search API.
type Client struct {
	baseURL      string
	userAgent    string
	querySuffix  string
	countryCodes string
	httpClient   *http.Client
	throttle     *throttle.Throttle
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates a Nominatim client.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		userAgent:    cfg.UserAgent,
		querySuffix:  cfg.QuerySuffix,
		countryCodes: cfg.CountryCodes,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		throttle: throttle.New(cfg.Delay, cfg.Clock),
		metrics:  metrics,
		logger:   logger,
	}
}

// LookupAddress geocodes the address with the configured suffix appended.
// Nominatim returns coordinates as JSON strings; values that fail to parse
// are treated as a miss rather than an error.
func (c *Client) LookupAddress(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return domain.Coordinate{}, false, err
	}

	params := url.Values{
		"q":      {address + c.querySuffix},
		"format": {"json"},
		"limit":  {"1"},
	}
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.LookupDuration.WithLabelValues("nominatim").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.Coordinate{}, false, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.LookupRequests.WithLabelValues("nominatim", "error").Inc()
		return domain.Coordinate{}, false, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var hits []hit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(hits) == 0 {
		c.metrics.LookupRequests.WithLabelValues("nominatim", "empty").Inc()
		return domain.Coordinate{}, false, nil
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		c.logger.Warn("nominatim returned unparseable coordinates",
			"lat", hits[0].Lat, "lon", hits[0].Lon)
		c.metrics.LookupRequests.WithLabelValues("nominatim", "empty").Inc()
		return domain.Coordinate{}, false, nil
	}

	c.metrics.LookupRequests.WithLabelValues("nominatim", "success").Inc()
	return domain.Coordinate{Lat: lat, Lng: lon}, true, nil
}

type hit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}
