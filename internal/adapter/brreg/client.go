// Package brreg implements name search against the Brønnøysund Register
// Centre's open Enhetsregisteret API.
package brreg

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
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	Delay    time.Duration
	Clock    clockwork.Clock
}

// Client implements domain.RegistrySearcher using Enhetsregisteret.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	throttle   *throttle.Throttle
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a business-register client.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		throttle: throttle.New(cfg.Delay, cfg.Clock),
		metrics:  metrics,
		logger:   logger,
	}
}

// Search queries the register for units matching name. An empty result page
// is not an error.
func (c *Client) Search(ctx context.Context, name string) ([]domain.RegistryCandidate, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"navn": {name},
		"size": {strconv.Itoa(c.pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.LookupDuration.WithLabelValues("brreg").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("brreg", "error").Inc()
		return nil, fmt.Errorf("brreg request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.LookupRequests.WithLabelValues("brreg", "error").Inc()
		return nil, fmt.Errorf("brreg API error: status %d: %s", resp.StatusCode, body)
	}

	var brregResp response
	if err := json.NewDecoder(resp.Body).Decode(&brregResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	units := brregResp.Embedded.Units
	if len(units) == 0 {
		c.metrics.LookupRequests.WithLabelValues("brreg", "empty").Inc()
		return nil, nil
	}

	candidates := make([]domain.RegistryCandidate, 0, len(units))
	for _, u := range units {
		candidates = append(candidates, domain.RegistryCandidate{
			Name:      u.Name,
			OrgNumber: u.OrgNumber,
			Website:   u.Website,
		})
	}
	c.metrics.LookupRequests.WithLabelValues("brreg", "success").Inc()
	return candidates, nil
}

// Enhetsregisteret API response types.

type response struct {
	Embedded embedded `json:"_embedded"`
}

type embedded struct {
	Units []unit `json:"enheter"`
}

type unit struct {
	Name      string `json:"navn"`
	OrgNumber string `json:"organisasjonsnummer"`
	Website   string `json:"hjemmeside"`
}
