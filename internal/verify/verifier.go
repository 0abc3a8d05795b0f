// Package verify cross-checks the coordinates produced by the geocoding
// stages against an independent geocoder and the area's geography. It never
// corrects anything; its output is a report for a human to act on.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

// Record statuses.
const (
	StatusOK    = "OK"
	StatusIssue = "ISSUE"
)

// Distance limits in meters. Properties are parcels with exact addresses,
// so the limit is tight; stores carry deliberate marker jitter and mall
// tenants list the mall's street, so theirs is looser.
const (
	DefaultPropertyLimitM = 200
	DefaultStoreLimitM    = 500
	DefaultAnchorLimitM   = 300
)

// Point is a bare coordinate pair as written to the report.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Result is the verification outcome for one record.
type Result struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Current   Point    `json:"current"`
	Status    string   `json:"status"`
	Issues    []string `json:"issues"`
	DistanceM *float64 `json:"distanceM,omitempty"`
}

// Report is the full verification run as written to the report file.
type Report struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Properties []Result  `json:"properties,omitempty"`
	Stores     []Result  `json:"stores,omitempty"`
	OK         int       `json:"ok"`
	Issues     int       `json:"issues"`
}

// HasIssues reports whether any record in the report was flagged.
func (r *Report) HasIssues() bool {
	return r.Issues > 0
}

// Verifier runs the coordinate checks.
type Verifier struct {
	geocoder domain.AddressLookup
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   *slog.Logger

	propertyLimitM float64
	storeLimitM    float64
	anchorLimitM   float64
	river          domain.Bounds
	anchor         domain.Coordinate
}

// NewVerifier creates a Verifier with the default limits. The geocoder must
// be independent of the one that produced the coordinates, or the check
// proves nothing.
func NewVerifier(geocoder domain.AddressLookup, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Verifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Verifier{
		geocoder:       geocoder,
		clock:          clock,
		metrics:        metrics,
		logger:         logger,
		propertyLimitM: DefaultPropertyLimitM,
		storeLimitM:    DefaultStoreLimitM,
		anchorLimitM:   DefaultAnchorLimitM,
		river:          domain.DrammenRiverBounds,
		anchor:         domain.GulskogenSenter,
	}
}

// Run verifies properties and stores and assembles the report. Pass a nil
// properties slice to skip that half.
func (v *Verifier) Run(ctx context.Context, properties []domain.Property, stores []domain.StoreLocation) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: v.clock.Now().UTC(),
	}

	for _, p := range properties {
		v.metrics.RecordsProcessed.WithLabelValues("verify_properties").Inc()
		result, err := v.check(ctx, checkInput{
			id: p.ID, name: p.Name, address: p.Address,
			coord:  p.Coordinate(),
			source: p.CoordinateSource,
			limitM: v.propertyLimitM,
		})
		if err != nil {
			return nil, err
		}
		report.Properties = append(report.Properties, result)
	}

	for _, s := range stores {
		v.metrics.RecordsProcessed.WithLabelValues("verify_stores").Inc()
		result, err := v.check(ctx, checkInput{
			id: s.ID, name: s.Name, address: s.Address,
			coord:       s.Coordinate(),
			source:      s.CoordinateSource,
			limitM:      v.storeLimitM,
			anchorCheck: s.CoordinateSource == domain.SourceShoppingCenter,
		})
		if err != nil {
			return nil, err
		}
		report.Stores = append(report.Stores, result)
	}

	for _, results := range [][]Result{report.Properties, report.Stores} {
		for _, r := range results {
			if r.Status == StatusOK {
				report.OK++
			} else {
				report.Issues++
			}
		}
	}
	report.FinishedAt = v.clock.Now().UTC()

	v.logger.Info("verification finished",
		"run_id", report.RunID,
		"ok", report.OK,
		"issues", report.Issues)
	return report, nil
}

type checkInput struct {
	id          string
	name        string
	address     string
	coord       domain.Coordinate
	source      string
	limitM      float64
	anchorCheck bool
}

func (v *Verifier) check(ctx context.Context, in checkInput) (Result, error) {
	result := Result{
		ID:      in.id,
		Name:    in.name,
		Address: in.address,
		Current: Point{Lat: in.coord.Lat, Lng: in.coord.Lng},
		Issues:  []string{},
	}

	if v.river.ContainsStrict(in.coord) {
		result.Issues = append(result.Issues,
			"RIVER: coordinate falls in Drammenselva")
	}

	if in.anchorCheck {
		if d := domain.Haversine(in.coord, v.anchor); d > v.anchorLimitM {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"ANCHOR: %.0f m from Gulskogen senter (limit %.0f m)", d, v.anchorLimitM))
		}
	}

	// Manual and mall-anchored coordinates exist precisely because address
	// geocoding fails or misleads for them, so only register-derived ones
	// are re-geocoded.
	if in.address != "" && in.source != domain.SourceManual && in.source != domain.SourceShoppingCenter {
		checked, found, err := v.geocoder.LookupAddress(ctx, in.address)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, err
			}
			v.logger.Warn("independent geocode failed", "id", in.id, "error", err)
			found = false
		}
		if !found {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"GEOCODE_FAIL: independent geocoder found no match for %q", in.address))
		} else {
			d := domain.Haversine(in.coord, checked)
			result.DistanceM = &d
			if d > in.limitM {
				result.Issues = append(result.Issues, fmt.Sprintf(
					"DISTANCE: %.0f m from independent geocode (limit %.0f m)", d, in.limitM))
			}
		}
	}

	result.Status = StatusOK
	if len(result.Issues) > 0 {
		result.Status = StatusIssue
		v.metrics.RecordFailures.WithLabelValues("verify").Inc()
		v.logger.Warn("coordinate flagged", "id", in.id, "issues", result.Issues)
	}
	return result, nil
}
