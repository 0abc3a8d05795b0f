package domain

import "math"

// Coordinate provenance tags recorded by the geocoder.
const (
	SourceShoppingCenter = "shopping_center"
	SourceManual         = "manual"
	SourceKartverket     = "kartverket"
	SourceStedsnavn      = "stedsnavn"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangular lat/lng region.
type Bounds struct {
	LatMin float64
	LatMax float64
	LngMin float64
	LngMax float64
}

// Contains reports whether the coordinate lies inside the bounds, edges
// included. Used to validate geocoding results against the municipality box.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.LatMin && c.Lat <= b.LatMax &&
		c.Lng >= b.LngMin && c.Lng <= b.LngMax
}

// ContainsStrict reports whether the coordinate lies strictly inside the
// bounds. Used for exclusion zones, where a point exactly on the edge is
// still on land.
func (b Bounds) ContainsStrict(c Coordinate) bool {
	return c.Lat > b.LatMin && c.Lat < b.LatMax &&
		c.Lng > b.LngMin && c.Lng < b.LngMax
}

// DrammenBounds is the municipality bounding box used to reject geocoding
// results that land outside the target area.
var DrammenBounds = Bounds{
	LatMin: 59.70, LatMax: 59.78,
	LngMin: 10.10, LngMax: 10.30,
}

// DrammenRiverBounds covers the stretch of Drammenselva that runs through
// the study area. A coordinate inside it is in the water, not at a store.
var DrammenRiverBounds = Bounds{
	LatMin: 59.7385, LatMax: 59.7415,
	LngMin: 10.195, LngMax: 10.215,
}

// GulskogenSenter is the anchor point shared by every store inside the
// Gulskogen shopping center.
var GulskogenSenter = Coordinate{Lat: 59.7423, Lng: 10.1576}

const (
	// goldenAngle spaces successive jitter offsets so co-located markers
	// spiral outward instead of stacking on one radius.
	goldenAngle = 137.508

	jitterBaseRadius = 0.0002  // degrees, ~22 m at Drammen latitudes
	jitterRadiusStep = 0.00005 // degrees, per occupied ring slot
)

// Jitter offsets a coordinate by a deterministic golden-angle spiral keyed
// on the occurrence index. Index 1 is the first entity at an address; index
// 0 is never handed out, so no entity sits on the raw lookup point.
func Jitter(c Coordinate, index int) Coordinate {
	angle := float64(index) * goldenAngle * math.Pi / 180
	radius := jitterBaseRadius + float64(index%7)*jitterRadiusStep
	return Coordinate{
		Lat: c.Lat + math.Cos(angle)*radius,
		Lng: c.Lng + math.Sin(angle)*radius,
	}
}

const earthRadiusM = 6371000

// Haversine returns the great-circle distance between two coordinates in
// meters.
func Haversine(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Round6 truncates a coordinate to six decimal places, the precision stored
// in the JSON datasets (~11 cm, far below marker resolution).
func Round6(c Coordinate) Coordinate {
	return Coordinate{
		Lat: math.Round(c.Lat*1e6) / 1e6,
		Lng: math.Round(c.Lng*1e6) / 1e6,
	}
}
