// Package geonorge implements address and place-name lookups against the
// Kartverket open APIs. Address search is the primary geocoding tier; the
// place-name (stedsnavn) endpoint catches stations and landmarks that have
// no street address.
package geonorge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
	"github.com/justaride/sundland-pipeline/internal/throttle"
)

// Config carries the endpoint and politeness settings for a Client.
type Config struct {
	AddressURL   string
	PlaceURL     string
	Municipality string
	Timeout      time.Duration
	Delay        time.Duration
	Clock        clockwork.Clock
}

// Client implements domain.AddressLookup and domain.PlaceLookup using the
// Kartverket adresser and stedsnavn APIs.
type Client struct {
	addressURL   string
	placeURL     string
	municipality string
	httpClient   *http.Client
	throttle     *throttle.Throttle
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates a Kartverket client.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		addressURL:   cfg.AddressURL,
		placeURL:     cfg.PlaceURL,
		municipality: cfg.Municipality,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		throttle: throttle.New(cfg.Delay, cfg.Clock),
		metrics:  metrics,
		logger:   logger,
	}
}

// LookupAddress searches the address register for "<address>, <municipality>"
// and returns the representation point of the best hit.
func (c *Client) LookupAddress(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	params := url.Values{
		"sok":          {fmt.Sprintf("%s, %s", address, c.municipality)},
		"treffPerSide": {"1"},
	}

	body, err := c.doRequest(ctx, c.addressURL+"?"+params.Encode(), "kartverket")
	if err != nil {
		return domain.Coordinate{}, false, err
	}

	var resp addressResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode address response: %w", err)
	}
	if len(resp.Addresses) == 0 || resp.Addresses[0].Point == nil {
		c.metrics.LookupRequests.WithLabelValues("kartverket", "empty").Inc()
		return domain.Coordinate{}, false, nil
	}

	p := resp.Addresses[0].Point
	c.metrics.LookupRequests.WithLabelValues("kartverket", "success").Inc()
	return domain.Coordinate{Lat: p.Lat, Lng: p.Lon}, true, nil
}

// LookupPlace searches the place-name register within the configured
// municipality. The API spells the hit list "navn" or "namn" depending on
// the language form of the record, so both are decoded.
func (c *Client) LookupPlace(ctx context.Context, name string) (domain.Coordinate, bool, error) {
	params := url.Values{
		"sok":          {name},
		"kommunenavn":  {c.municipality},
		"treffPerSide": {"1"},
	}

	body, err := c.doRequest(ctx, c.placeURL+"?"+params.Encode(), "stedsnavn")
	if err != nil {
		return domain.Coordinate{}, false, err
	}

	var resp placeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode place response: %w", err)
	}

	hits := resp.Navn
	if len(hits) == 0 {
		hits = resp.Namn
	}
	if len(hits) == 0 || hits[0].Point == nil {
		c.metrics.LookupRequests.WithLabelValues("stedsnavn", "empty").Inc()
		return domain.Coordinate{}, false, nil
	}

	p := hits[0].Point
	c.metrics.LookupRequests.WithLabelValues("stedsnavn", "success").Inc()
	return domain.Coordinate{Lat: p.North, Lng: p.East}, true, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, service string) ([]byte, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.LookupDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues(service, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.LookupRequests.WithLabelValues(service, "error").Inc()
		return nil, fmt.Errorf("%s API error: status %d: %s", service, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", service, err)
	}
	return body, nil
}

// Kartverket API response types.

type addressResponse struct {
	Addresses []addressHit `json:"adresser"`
}

type addressHit struct {
	Point *addressPoint `json:"representasjonspunkt"`
}

type addressPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type placeResponse struct {
	Navn []placeHit `json:"navn"`
	Namn []placeHit `json:"namn"`
}

type placeHit struct {
	Point *placePoint `json:"representasjonspunkt"`
}

type placePoint struct {
	North float64 `json:"nord"`
	East  float64 `json:"aust"`
}
