package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaride/sundland-pipeline/internal/domain"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

type fakeAddressLookup struct {
	coords map[string]domain.Coordinate
	calls  int
}

func (f *fakeAddressLookup) LookupAddress(_ context.Context, address string) (domain.Coordinate, bool, error) {
	f.calls++
	c, ok := f.coords[address]
	return c, ok, nil
}

type fakePlaceLookup struct {
	coords map[string]domain.Coordinate
	calls  int
}

func (f *fakePlaceLookup) LookupPlace(_ context.Context, name string) (domain.Coordinate, bool, error) {
	f.calls++
	c, ok := f.coords[name]
	return c, ok, nil
}

func storeGeocoder(address *fakeAddressLookup, place *fakePlaceLookup) *StoreGeocoder {
	return NewStoreGeocoder(address, place, DefaultOverrides(),
		observability.NewMetricsForTesting(), discardLogger())
}

func TestStoreRun_AddressLookup(t *testing.T) {
	address := &fakeAddressLookup{coords: map[string]domain.Coordinate{
		"Betzy Kjeldsbergs vei 1": {Lat: 59.7441, Lng: 10.1783},
	}}
	g := storeGeocoder(address, &fakePlaceLookup{})

	locations, stats, err := g.Run(context.Background(), []domain.Store{{
		Rank: 1, Name: "Kiwi Gulskogen", Category: "Handel / Dagligvare",
		Address: "Betzy Kjeldsbergs vei 1", Revenue: 3_100_000, Employees: 12,
	}})
	require.NoError(t, err)
	require.Len(t, locations, 1)

	loc := locations[0]
	assert.Equal(t, "store-1", loc.ID)
	assert.Equal(t, "Dagligvare", loc.Category)
	assert.Equal(t, "Handel", loc.TopCategory)
	assert.Equal(t, domain.SourceKartverket, loc.CoordinateSource)
	assert.Equal(t, StoreStats{Geocoded: 1}, stats)

	// Jittered off the lookup point, but only by marker-spread distance.
	base := domain.Coordinate{Lat: 59.7441, Lng: 10.1783}
	d := domain.Haversine(base, loc.Coordinate())
	assert.Greater(t, d, 1.0)
	assert.Less(t, d, 50.0)
}

func TestStoreRun_ShoppingCenterOverride(t *testing.T) {
	address := &fakeAddressLookup{}
	g := storeGeocoder(address, &fakePlaceLookup{})

	locations, stats, err := g.Run(context.Background(), []domain.Store{{
		Rank: 2, Name: "B-Young", Category: "Handel / Klesbutikker",
		Address: "Professor Smiths alle",
	}})
	require.NoError(t, err)
	require.Len(t, locations, 1)

	assert.Equal(t, domain.SourceShoppingCenter, locations[0].CoordinateSource)
	assert.Equal(t, StoreStats{Overridden: 1}, stats)
	assert.Zero(t, address.calls, "override tier must short-circuit the API")

	d := domain.Haversine(domain.GulskogenSenter, locations[0].Coordinate())
	assert.Less(t, d, 50.0)
}

func TestStoreRun_ManualFallback(t *testing.T) {
	g := storeGeocoder(&fakeAddressLookup{}, &fakePlaceLookup{})

	locations, stats, err := g.Run(context.Background(), []domain.Store{{
		Rank: 3, Name: "Kiosken", Category: "Servering", Address: "Lierstranda",
	}})
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, domain.SourceManual, locations[0].CoordinateSource)
	assert.Equal(t, StoreStats{Overridden: 1}, stats)
}

func TestStoreRun_SharedAddressJittersDistinctly(t *testing.T) {
	address := &fakeAddressLookup{coords: map[string]domain.Coordinate{
		"Guldlisten 35": {Lat: 59.7440, Lng: 10.1700},
	}}
	g := storeGeocoder(address, &fakePlaceLookup{})

	stores := make([]domain.Store, 3)
	for i := range stores {
		stores[i] = domain.Store{Rank: i + 1, Name: "Leietaker", Category: "Handel", Address: "Guldlisten 35"}
	}

	locations, _, err := g.Run(context.Background(), stores)
	require.NoError(t, err)
	require.Len(t, locations, 3)

	assert.Equal(t, 1, address.calls, "one lookup per distinct address")

	seen := map[domain.Coordinate]bool{}
	for _, loc := range locations {
		assert.False(t, seen[loc.Coordinate()], "co-located stores must not stack")
		seen[loc.Coordinate()] = true
	}
}

func TestStoreRun_PlaceNameFallback(t *testing.T) {
	place := &fakePlaceLookup{coords: map[string]domain.Coordinate{
		"Gulskogen stasjon": {Lat: 59.7436, Lng: 10.1691},
	}}
	g := storeGeocoder(&fakeAddressLookup{}, place)

	locations, _, err := g.Run(context.Background(), []domain.Store{{
		Rank: 4, Name: "Narvesen", Category: "Handel / Kiosk", Address: "Gulskogen stasjon",
	}})
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, domain.SourceStedsnavn, locations[0].CoordinateSource)
}

func TestStoreRun_OutOfBoundsIsRejected(t *testing.T) {
	// Oslo coordinates: a plausible-looking hit in the wrong municipality.
	address := &fakeAddressLookup{coords: map[string]domain.Coordinate{
		"Karl Johans gate 1": {Lat: 59.9114, Lng: 10.7460},
	}}
	g := storeGeocoder(address, &fakePlaceLookup{})

	locations, stats, err := g.Run(context.Background(), []domain.Store{{
		Rank: 5, Name: "Feilbutikk", Category: "Handel", Address: "Karl Johans gate 1",
	}})
	require.NoError(t, err)
	assert.Empty(t, locations)
	assert.Equal(t, StoreStats{Failed: 1}, stats)
}

func TestStoreRun_UnresolvedStoreIsDropped(t *testing.T) {
	g := storeGeocoder(&fakeAddressLookup{}, &fakePlaceLookup{})

	locations, stats, err := g.Run(context.Background(), []domain.Store{
		{Rank: 1, Name: "Finnes Ikke", Category: "Handel", Address: "Ukjent vei 99"},
		{Rank: 2, Name: "Kiwi", Category: "Handel / Dagligvare", Address: "Professor Smiths alle"},
	})
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "store-2", locations[0].ID)
	assert.Equal(t, 1, stats.Failed)
}
