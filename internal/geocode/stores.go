package geocode

import (
	"context"
	"log/slog"
	"strings"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

// StoreStats summarizes one store-geocoding run.
type StoreStats struct {
	Geocoded   int // resolved via register lookup
	Overridden int // resolved via shopping-center or manual table
	Failed     int // no tier produced an in-bounds coordinate
}

// StoreGeocoder turns normalized store records into geocoded locations.
type StoreGeocoder struct {
	address   domain.AddressLookup
	place     domain.PlaceLookup
	overrides *Overrides
	bounds    domain.Bounds
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewStoreGeocoder creates a store geocoder bounded to the municipality box.
func NewStoreGeocoder(address domain.AddressLookup, place domain.PlaceLookup, overrides *Overrides, metrics *observability.Metrics, logger *slog.Logger) *StoreGeocoder {
	return &StoreGeocoder{
		address:   address,
		place:     place,
		overrides: overrides,
		bounds:    domain.DrammenBounds,
		metrics:   metrics,
		logger:    logger,
	}
}

type resolvedBase struct {
	coord  domain.Coordinate
	source string
}

// Run geocodes every store. Each distinct address is resolved once and
// cached for the run; subsequent stores at the same address reuse the base
// coordinate with the next jitter index. Stores that cannot be resolved are
// logged and dropped from the output.
func (g *StoreGeocoder) Run(ctx context.Context, stores []domain.Store) ([]domain.StoreLocation, StoreStats, error) {
	cache := make(map[string]resolvedBase)
	counts := make(map[string]int)

	var stats StoreStats
	locations := make([]domain.StoreLocation, 0, len(stores))
	for _, s := range stores {
		g.metrics.RecordsProcessed.WithLabelValues("geocode_stores").Inc()

		addr := strings.ToUpper(strings.TrimSpace(s.Address))

		base, ok := cache[addr]
		if ok {
			g.metrics.CacheLookups.WithLabelValues("address", "hit").Inc()
		} else {
			g.metrics.CacheLookups.WithLabelValues("address", "miss").Inc()
			var err error
			base, ok, err = g.resolve(ctx, addr, s)
			if err != nil {
				return nil, stats, err
			}
			if !ok {
				g.logger.Warn("store could not be geocoded",
					"store", s.Name, "address", s.Address)
				g.metrics.RecordFailures.WithLabelValues("geocode_stores").Inc()
				stats.Failed++
				continue
			}
			cache[addr] = base
		}

		switch base.source {
		case domain.SourceShoppingCenter, domain.SourceManual:
			stats.Overridden++
		default:
			stats.Geocoded++
		}

		counts[addr]++
		coord := domain.Round6(domain.Jitter(base.coord, counts[addr]))

		locations = append(locations, domain.StoreLocation{
			ID:               s.ID(),
			Name:             s.Name,
			Category:         domain.SimplifyCategory(s.Category),
			TopCategory:      domain.TopCategory(s.Category),
			Address:          s.Address,
			Lat:              coord.Lat,
			Lng:              coord.Lng,
			Revenue:          s.Revenue,
			Employees:        s.Employees,
			YoYGrowth:        s.YoYGrowth,
			MarketShare:      s.MarketShare,
			ChainLocations:   s.ChainLocations,
			CoordinateSource: base.source,
		})
	}

	g.logger.Info("store geocoding finished",
		"total", len(stores),
		"geocoded", stats.Geocoded,
		"overridden", stats.Overridden,
		"failed", stats.Failed)
	return locations, stats, nil
}

// resolve walks the lookup tiers for one address. A lookup error aborts the
// run only when the context is gone; a flaky single response should not
// throw away a half-finished batch.
func (g *StoreGeocoder) resolve(ctx context.Context, addr string, s domain.Store) (resolvedBase, bool, error) {
	if c, ok := g.overrides.MatchShoppingCenter(addr); ok {
		return resolvedBase{coord: c, source: domain.SourceShoppingCenter}, true, nil
	}
	if c, ok := g.overrides.ManualAddress(addr); ok {
		return resolvedBase{coord: c, source: domain.SourceManual}, true, nil
	}

	c, found, err := g.address.LookupAddress(ctx, s.Address)
	if err != nil {
		if ctx.Err() != nil {
			return resolvedBase{}, false, err
		}
		g.logger.Warn("address lookup failed", "address", s.Address, "error", err)
		found = false
	}
	if found && g.bounds.Contains(c) {
		return resolvedBase{coord: c, source: domain.SourceKartverket}, true, nil
	}
	if found {
		g.logger.Warn("address resolved outside municipality bounds",
			"address", s.Address, "lat", c.Lat, "lng", c.Lng)
		g.metrics.LookupRequests.WithLabelValues("kartverket", "out_of_bounds").Inc()
	}

	// Some store "addresses" are really place names (stations, piers).
	c, found, err = g.place.LookupPlace(ctx, s.Address)
	if err != nil {
		if ctx.Err() != nil {
			return resolvedBase{}, false, err
		}
		g.logger.Warn("place lookup failed", "address", s.Address, "error", err)
		return resolvedBase{}, false, nil
	}
	if found && g.bounds.Contains(c) {
		return resolvedBase{coord: c, source: domain.SourceStedsnavn}, true, nil
	}
	if found {
		g.metrics.LookupRequests.WithLabelValues("stedsnavn", "out_of_bounds").Inc()
	}
	return resolvedBase{}, false, nil
}
