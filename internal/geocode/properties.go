package geocode

import (
	"context"
	"log/slog"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

// PropertyStats summarizes one property-geocoding run.
type PropertyStats struct {
	Resolved int // via address or place lookup
	Manual   int // via the manual property table
	Failed   int // left untouched
}

// PropertyGeocoder fills in lat/lng on development-property records. The
// records are raw JSON objects, not typed structs, so fields maintained by
// hand in the source file survive the rewrite.
type PropertyGeocoder struct {
	address   domain.AddressLookup
	place     domain.PlaceLookup
	overrides *Overrides
	bounds    domain.Bounds
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewPropertyGeocoder creates a property geocoder bounded to the
// municipality box.
func NewPropertyGeocoder(address domain.AddressLookup, place domain.PlaceLookup, overrides *Overrides, metrics *observability.Metrics, logger *slog.Logger) *PropertyGeocoder {
	return &PropertyGeocoder{
		address:   address,
		place:     place,
		overrides: overrides,
		bounds:    domain.DrammenBounds,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run resolves a coordinate for every property and mutates the records in
// place. Properties that resolve nowhere keep whatever coordinates they had.
func (g *PropertyGeocoder) Run(ctx context.Context, properties []map[string]any) (PropertyStats, error) {
	var stats PropertyStats
	for _, p := range properties {
		g.metrics.RecordsProcessed.WithLabelValues("geocode_properties").Inc()

		id, _ := p["id"].(string)
		name, _ := p["name"].(string)

		if c, ok := g.overrides.ManualProperty(id); ok {
			apply(p, c, domain.SourceManual)
			stats.Manual++
			continue
		}

		c, source, ok, err := g.lookup(ctx, p)
		if err != nil {
			return stats, err
		}
		if !ok {
			g.logger.Warn("property could not be geocoded", "id", id, "name", name)
			g.metrics.RecordFailures.WithLabelValues("geocode_properties").Inc()
			stats.Failed++
			continue
		}
		apply(p, c, source)
		stats.Resolved++
	}

	g.logger.Info("property geocoding finished",
		"total", len(properties),
		"resolved", stats.Resolved,
		"manual", stats.Manual,
		"failed", stats.Failed)
	return stats, nil
}

func (g *PropertyGeocoder) lookup(ctx context.Context, p map[string]any) (domain.Coordinate, string, bool, error) {
	addr, _ := p["address"].(string)
	if addr == "" {
		return domain.Coordinate{}, "", false, nil
	}

	c, found, err := g.address.LookupAddress(ctx, addr)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Coordinate{}, "", false, err
		}
		g.logger.Warn("address lookup failed", "address", addr, "error", err)
	} else if found && g.bounds.Contains(c) {
		return c, domain.SourceKartverket, true, nil
	}

	// Some property records carry an area or landmark name in the address
	// field; those miss the address register but hit the place-name one.
	c, found, err = g.place.LookupPlace(ctx, addr)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Coordinate{}, "", false, err
		}
		g.logger.Warn("place lookup failed", "address", addr, "error", err)
		return domain.Coordinate{}, "", false, nil
	}
	if found && g.bounds.Contains(c) {
		return c, domain.SourceStedsnavn, true, nil
	}
	return domain.Coordinate{}, "", false, nil
}

func apply(p map[string]any, c domain.Coordinate, source string) {
	c = domain.Round6(c)
	p["lat"] = c.Lat
	p["lng"] = c.Lng
	p["coordinateSource"] = source
}
