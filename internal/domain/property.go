package domain

// Property is a residential/commercial development entity. The property list
// is externally authored; this pipeline only ever corrects its coordinates,
// so the struct covers just the fields the geocoder and verifier read.
// Stages that rewrite properties.json work on raw JSON objects instead
// (internal/adapter/jsonfile) to preserve fields not modeled here.
type Property struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Bydel    string  `json:"bydel"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`

	CoordinateSource string `json:"coordinateSource"`
}

// Coordinate returns the property's map position.
func (p Property) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lng: p.Lng}
}
