// Package enrich augments geocoded store locations with business-register
// identities and hand-curated contact details.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

// MatchStats summarizes one registry-matching run.
type MatchStats struct {
	Matched   int
	Unmatched int
	CacheHits int
}

// Matcher links store locations to register units by fuzzy name match.
type Matcher struct {
	registry  domain.RegistrySearcher
	threshold float64
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewMatcher creates a Matcher accepting candidates scoring at or above
// threshold.
func NewMatcher(registry domain.RegistrySearcher, threshold float64, metrics *observability.Metrics, logger *slog.Logger) *Matcher {
	return &Matcher{
		registry:  registry,
		threshold: threshold,
		metrics:   metrics,
		logger:    logger,
	}
}

type registryMatch struct {
	orgNr   string
	website string
}

// Run matches every location in place. Chain stores share a brand, so
// successful matches are cached per brand for the run; "Kiwi Gulskogen" and
// "Kiwi Sundland" cost one API call between them. Lookup errors fail only
// the affected store.
func (m *Matcher) Run(ctx context.Context, locations []domain.StoreLocation) (MatchStats, error) {
	cache := make(map[string]registryMatch)

	var stats MatchStats
	for i := range locations {
		loc := &locations[i]
		m.metrics.RecordsProcessed.WithLabelValues("enrich_registry").Inc()

		brand := domain.ExtractBrand(loc.Name)
		if utf8.RuneCountInString(brand) < 2 {
			m.logger.Debug("name too short to search", "store", loc.Name)
			stats.Unmatched++
			continue
		}

		key := strings.ToUpper(brand)
		if hit, ok := cache[key]; ok {
			m.metrics.CacheLookups.WithLabelValues("brand", "hit").Inc()
			applyMatch(loc, hit)
			stats.Matched++
			stats.CacheHits++
			continue
		}
		m.metrics.CacheLookups.WithLabelValues("brand", "miss").Inc()

		candidates, err := m.registry.Search(ctx, brand)
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			m.logger.Warn("registry search failed", "brand", brand, "error", err)
			m.metrics.RecordFailures.WithLabelValues("enrich_registry").Inc()
			stats.Unmatched++
			continue
		}

		best, score := bestCandidate(loc.Name, candidates)
		if score < m.threshold {
			m.logger.Debug("no acceptable registry match",
				"store", loc.Name, "brand", brand, "best_score", score)
			stats.Unmatched++
			continue
		}

		hit := registryMatch{orgNr: best.OrgNumber, website: best.Website}
		cache[key] = hit
		applyMatch(loc, hit)
		stats.Matched++
	}

	m.logger.Info("registry matching finished",
		"total", len(locations),
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"cache_hits", stats.CacheHits)
	return stats, nil
}

func bestCandidate(storeName string, candidates []domain.RegistryCandidate) (domain.RegistryCandidate, float64) {
	var best domain.RegistryCandidate
	bestScore := -1.0
	for _, c := range candidates {
		if score := domain.FuzzyScore(storeName, c.Name); score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}

func applyMatch(loc *domain.StoreLocation, hit registryMatch) {
	orgNr := hit.orgNr
	loc.OrgNr = &orgNr
	if hit.website != "" {
		website := hit.website
		loc.Website = &website
	}
}
