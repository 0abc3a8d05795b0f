// Package domain models the Sundland/Gulskogen commerce and property data
// that flows through the enrichment pipeline.
//
// # Data Source
//
// Commerce data originates from a Plaace analytics export: a directory of
// CSV files plus one specialized revenue export where each store is a
// multi-line block introduced by a "#<rank>," marker. The normalizer
// (internal/plaace) converts these into the JSON datasets the map UI
// consumes; later stages enrich the store records in place.
//
// # Norwegian Conventions
//
// Numbers use a decimal comma ("2,5" = 2.5) and "-" as the absent-value
// sentinel; both are handled during normalization. Monetary magnitudes in
// the revenue export use suffixes:
//
//	"NOK 2.5 mill"  →  2 500 000 NOK
//	"NOK 850k"      →  850 000 NOK
//
// Company names carry legal-entity suffixes (AS, ASA, ANS, DA, ENK, NUF) and
// location qualifiers ("Kiwi Gulskogen AS") that are stripped when deriving
// the brand token used as the registry search key. See [ExtractBrand].
//
// # Match Scoring
//
// Registry candidates are scored 0.0–1.0 by a tiered heuristic, first match
// wins: equal normalized names (1.0), one name containing the other (0.9),
// equal brand tokens (0.85), one brand containing the other (0.7), otherwise
// a word-overlap ratio scaled by 0.6. Matches below 0.4 are rejected. See
// [FuzzyScore].
//
// # Coordinates
//
// All coordinates are WGS-84. Geocoding results must fall inside the Drammen
// municipality bounding box or they are rejected and the next lookup tier is
// tried. Stores sharing one resolved address are spread by a deterministic
// golden-angle spiral so map markers never overlap exactly; the first
// occurrence at an address gets jitter index 1, so even a single store sits
// at a reproducible offset from the raw lookup point. See [Jitter].
package domain
