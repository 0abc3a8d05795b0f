package domain

import "context"

// AddressLookup resolves a street address to a coordinate. The bool reports
// whether the service returned a hit; a miss is not an error.
type AddressLookup interface {
	LookupAddress(ctx context.Context, address string) (Coordinate, bool, error)
}

// PlaceLookup resolves a place name (station, neighbourhood, landmark) to a
// coordinate. Used as the fallback tier when address search comes up empty.
type PlaceLookup interface {
	LookupPlace(ctx context.Context, name string) (Coordinate, bool, error)
}

// RegistryCandidate is one business-register hit for a name search.
type RegistryCandidate struct {
	Name      string
	OrgNumber string
	Website   string
}

// RegistrySearcher queries the national business register by name.
type RegistrySearcher interface {
	Search(ctx context.Context, name string) ([]RegistryCandidate, error)
}
