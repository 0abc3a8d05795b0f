package plaace

import (
	"regexp"
	"strings"

	"github.com/justaride/sundland-pipeline/internal/domain"
)

// The revenue export is not row-per-record CSV: each store is an irregular
// multi-line block introduced by a "#<rank>," line, with monetary and
// percentage values buried in free-text cells. The first six lines of the
// file are report preamble and never contain a record.
const revenuePreambleLines = 6

var (
	blockStartRe = regexp.MustCompile(`^#\d+,`)

	// blockHeaderRe pulls the five positional header fields out of a block:
	// rank, name, category, address, municipality. Everything after the fifth
	// comma is free text.
	blockHeaderRe = regexp.MustCompile(`^#(\d+),([^,]+),([^,]+),([^,]*),([^,]*),`)

	revenueMillRe = regexp.MustCompile(`NOK\s+([\d.,]+)\s*mill`)
	revenueKRe    = regexp.MustCompile(`NOK\s+([\d.,]+)k`)
	chainShareRe  = regexp.MustCompile(`([\d.]+)%\s*av kjede`)
	yoyGrowthRe   = regexp.MustCompile(`^([+-]?[\d.,]+)%`)
	employeesRe   = regexp.MustCompile(`^(\d+)`)
	chainSizeRe   = regexp.MustCompile(`(\d+)\s+i\s+(\d+)\s+lokasjoner`)
	percentRe     = regexp.MustCompile(`([\d.]+)%`)
)

// ParseRevenueExport parses the store-revenue export into Store records.
// Blocks whose header does not match are skipped; any other field that fails
// to extract gets its documented default (0 or null); stores without chain
// affiliation simply have no chain fragment to match.
func ParseRevenueExport(text string) []domain.Store {
	lines := strings.Split(StripBOM(text), "\n")

	var starts []int
	for i := revenuePreambleLines; i < len(lines); i++ {
		if blockStartRe.MatchString(lines[i]) {
			starts = append(starts, i)
		}
	}

	var stores []domain.Store
	for bi, start := range starts {
		end := len(lines)
		if bi+1 < len(starts) {
			end = starts[bi+1]
		}
		block := strings.Join(lines[start:end], "\n")

		store, ok := parseBlock(block)
		if !ok {
			continue
		}
		stores = append(stores, store)
	}
	return stores
}

func parseBlock(block string) (domain.Store, bool) {
	header := blockHeaderRe.FindStringSubmatch(block)
	if header == nil {
		return domain.Store{}, false
	}

	store := domain.Store{
		Rank:         ToInt(header[1]),
		Name:         strings.TrimSpace(header[2]),
		Category:     strings.TrimSpace(header[3]),
		Address:      strings.TrimSpace(header[4]),
		Municipality: strings.TrimSpace(header[5]),
		Revenue:      RoundF(parseRevenue(block), 0),
	}

	if m := chainShareRe.FindStringSubmatch(block); m != nil {
		store.ChainShare = ToNum(m[1])
	}
	if m := chainSizeRe.FindStringSubmatch(block); m != nil {
		emp := ToInt(m[1])
		locs := ToInt(m[2])
		store.ChainEmployees = &emp
		store.ChainLocations = &locs
	}

	// The quoted free-text cells split the block into positional fields:
	// [1] year-over-year growth, [2] employees, [3] market share.
	fields := strings.Split(block, `","`)
	if len(fields) >= 2 {
		if m := yoyGrowthRe.FindStringSubmatch(fields[1]); m != nil {
			store.YoYGrowth = ToNum(m[1])
		}
	}
	if len(fields) >= 3 {
		if m := employeesRe.FindStringSubmatch(fields[2]); m != nil {
			store.Employees = ToInt(m[1])
		}
	}
	if len(fields) >= 4 {
		if m := percentRe.FindStringSubmatch(fields[3]); m != nil {
			store.MarketShare = orZero(ToNum(m[1]))
		}
	}

	return store, true
}

// parseRevenue extracts the estimated annual revenue from the monetary
// free-text fragment: "NOK 2.5 mill" → 2 500 000, "NOK 850k" → 850 000.
// Blocks without either magnitude default to 0.
func parseRevenue(block string) float64 {
	if m := revenueMillRe.FindStringSubmatch(block); m != nil {
		return orZero(ToNum(m[1])) * 1_000_000
	}
	if m := revenueKRe.FindStringSubmatch(block); m != nil {
		return orZero(ToNum(m[1])) * 1_000
	}
	return 0
}
