package domain

import (
	"fmt"
	"strings"
)

// Store is one record from the Plaace revenue export, as produced by the
// normalizer. Nullable fields are pointers so "no chain affiliation" survives
// the JSON round trip as null rather than zero.
type Store struct {
	Rank           int      `json:"rank"`
	Name           string   `json:"name"`
	Category       string   `json:"category"` // slash-delimited, e.g. "Handel / Klesbutikker"
	Address        string   `json:"address"`
	Municipality   string   `json:"municipality"`
	Revenue        float64  `json:"revenue"` // estimated annual NOK
	ChainShare     *float64 `json:"chainShare"`
	YoYGrowth      *float64 `json:"yoyGrowth"`
	Employees      int      `json:"employees"`
	ChainEmployees *int     `json:"chainEmployees"`
	ChainLocations *int     `json:"chainLocations"`
	MarketShare    float64  `json:"marketShare"`
}

// ID returns the external key used for the store across all datasets.
func (s Store) ID() string {
	return fmt.Sprintf("store-%d", s.Rank)
}

// StoreLocation is a geocoded store as written to storeLocations.json.
// The registry matcher and manual enrichment fill in the trailing fields;
// they stay null until then.
type StoreLocation struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	TopCategory      string   `json:"topCategory"`
	Address          string   `json:"address"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Revenue          float64  `json:"revenue"`
	Employees        int      `json:"employees"`
	YoYGrowth        *float64 `json:"yoyGrowth"`
	MarketShare      float64  `json:"marketShare"`
	ChainLocations   *int     `json:"chainLocations"`
	CoordinateSource string   `json:"coordinateSource"`
	OrgNr            *string  `json:"orgNr"`
	Website          *string  `json:"website"`
	Phone            *string  `json:"phone"`
	Email            *string  `json:"email"`
	Facebook         *string  `json:"facebook"`
	Instagram        *string  `json:"instagram"`
}

// Coordinate returns the store's map position.
func (s StoreLocation) Coordinate() Coordinate {
	return Coordinate{Lat: s.Lat, Lng: s.Lng}
}

// SimplifyCategory returns the second level of a slash-delimited category,
// falling back to the whole string when there is only one level.
func SimplifyCategory(full string) string {
	parts := strings.Split(full, " / ")
	if len(parts) > 1 {
		return parts[1]
	}
	return parts[0]
}

// TopCategory returns the first level of a slash-delimited category.
func TopCategory(full string) string {
	return strings.Split(full, " / ")[0]
}
