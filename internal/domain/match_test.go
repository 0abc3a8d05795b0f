package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBrand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"legal suffix", "Kiwi Gulskogen AS", "Kiwi"},
		{"lowercase suffix", "Rema 1000 Drammen as", "Rema"},
		{"digits dropped", "Kiwi 594", "Kiwi"},
		{"descriptor tokens", "Vita Gulskogen Senter", "Vita"},
		{"ampersand kept", "Møller & Sønn ANS", "Møller & Sønn"},
		{"noise characters", "B-Young (Gulskogen)", "B-Young"},
		{"plain name untouched", "Cubus", "Cubus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBrand(tt.in))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "KIWI GULSKOGEN AS", NormalizeName("Kiwi  Gulskogen A.S"))
	assert.Equal(t, "MØLLER SØNN", NormalizeName("Møller & Sønn"))
	assert.Equal(t, "BYOUNG", NormalizeName("B-Young"))
}

func TestFuzzyScore_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		store string
		cand  string
		want  float64
	}{
		{"exact after normalization", "Kiwi", "KIWI", 1.0},
		{"full-name substring", "Kiwi Gulskogen AS", "KIWI", 0.9},
		{"equal brands", "Kiwi Gulskogen", "Kiwi Drammen", 0.85},
		{"brand substring", "Power Drammen", "Power Norge AS", 0.7},
		{"word overlap", "Sport Outlet Drammen", "Norsk Sport Holding", 0.3},
		{"no overlap", "Cubus", "Narvesen", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FuzzyScore(tt.store, tt.cand), 1e-9)
		})
	}
}

func TestFuzzyScore_SymmetricTiers(t *testing.T) {
	pairs := [][2]string{
		{"Kiwi", "KIWI"},
		{"Kiwi Gulskogen AS", "KIWI"},
		{"Kiwi Gulskogen", "Kiwi Drammen"},
		{"Power Drammen", "Power Norge AS"},
	}
	for _, p := range pairs {
		assert.Equal(t, FuzzyScore(p[0], p[1]), FuzzyScore(p[1], p[0]),
			"score not symmetric for %q / %q", p[0], p[1])
	}
}

func TestFuzzyScore_KiwiCase(t *testing.T) {
	assert.GreaterOrEqual(t, FuzzyScore("Kiwi Gulskogen AS", "KIWI"), 0.85)
}

func TestSimplifyCategory(t *testing.T) {
	assert.Equal(t, "Klesbutikker", SimplifyCategory("Handel / Klesbutikker"))
	assert.Equal(t, "Servering", SimplifyCategory("Servering"))
	assert.Equal(t, "Handel", TopCategory("Handel / Klesbutikker"))
}

func TestStoreID(t *testing.T) {
	assert.Equal(t, "store-3", Store{Rank: 3}.ID())
}
