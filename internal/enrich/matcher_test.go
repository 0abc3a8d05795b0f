package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

type fakeRegistry struct {
	candidates map[string][]domain.RegistryCandidate
	err        error
	calls      []string
}

func (f *fakeRegistry) Search(_ context.Context, name string) ([]domain.RegistryCandidate, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[name], nil
}

func testMatcher(registry *fakeRegistry) *Matcher {
	return NewMatcher(registry, 0.4,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMatcherRun_MatchesAndEnriches(t *testing.T) {
	registry := &fakeRegistry{candidates: map[string][]domain.RegistryCandidate{
		"Kiwi": {
			{Name: "KIWI NORGE AS", OrgNumber: "982419523", Website: "kiwi.no"},
			{Name: "KIWANIS CLUB", OrgNumber: "111111111"},
		},
	}}
	m := testMatcher(registry)

	locations := []domain.StoreLocation{{ID: "store-1", Name: "Kiwi Gulskogen AS"}}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Matched: 1}, stats)
	require.NotNil(t, locations[0].OrgNr)
	assert.Equal(t, "982419523", *locations[0].OrgNr)
	require.NotNil(t, locations[0].Website)
	assert.Equal(t, "kiwi.no", *locations[0].Website)
	assert.Equal(t, []string{"Kiwi"}, registry.calls, "search uses the extracted brand")
}

func TestMatcherRun_BrandCacheSharedAcrossChainStores(t *testing.T) {
	registry := &fakeRegistry{candidates: map[string][]domain.RegistryCandidate{
		"Kiwi": {{Name: "KIWI NORGE AS", OrgNumber: "982419523"}},
	}}
	m := testMatcher(registry)

	locations := []domain.StoreLocation{
		{ID: "store-1", Name: "Kiwi Gulskogen AS"},
		{ID: "store-2", Name: "Kiwi Drammen AS"},
	}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Matched: 2, CacheHits: 1}, stats)
	assert.Len(t, registry.calls, 1)
	require.NotNil(t, locations[1].OrgNr)
	assert.Equal(t, "982419523", *locations[1].OrgNr)
}

func TestMatcherRun_BelowThresholdStaysNull(t *testing.T) {
	registry := &fakeRegistry{candidates: map[string][]domain.RegistryCandidate{
		"Blomsterbutikken": {{Name: "HELT ANNET FIRMA AS", OrgNumber: "999999999"}},
	}}
	m := testMatcher(registry)

	locations := []domain.StoreLocation{{ID: "store-1", Name: "Blomsterbutikken"}}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Unmatched: 1}, stats)
	assert.Nil(t, locations[0].OrgNr)
}

func TestMatcherRun_EmptyResultIsUnmatched(t *testing.T) {
	m := testMatcher(&fakeRegistry{})

	locations := []domain.StoreLocation{{ID: "store-1", Name: "Ukjent Butikk AS"}}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Unmatched: 1}, stats)
}

func TestMatcherRun_ShortBrandSkipsSearch(t *testing.T) {
	registry := &fakeRegistry{}
	m := testMatcher(registry)

	// Brand extraction strips the qualifier and digits, leaving nothing.
	locations := []domain.StoreLocation{{ID: "store-1", Name: "Drammen 7"}}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Unmatched: 1}, stats)
	assert.Empty(t, registry.calls)
}

func TestMatcherRun_SearchErrorFailsOnlyThatStore(t *testing.T) {
	registry := &fakeRegistry{err: errors.New("brreg down")}
	m := testMatcher(registry)

	locations := []domain.StoreLocation{
		{ID: "store-1", Name: "Kiwi Gulskogen AS"},
		{ID: "store-2", Name: "Narvesen AS"},
	}
	stats, err := m.Run(context.Background(), locations)
	require.NoError(t, err)

	assert.Equal(t, MatchStats{Unmatched: 2}, stats)
}

func TestMatcherRun_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	registry := &fakeRegistry{err: ctx.Err()}
	m := testMatcher(registry)

	locations := []domain.StoreLocation{{ID: "store-1", Name: "Kiwi Gulskogen AS"}}
	_, err := m.Run(ctx, locations)
	assert.Error(t, err)
}
