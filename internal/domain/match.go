package domain

import (
	"math"
	"regexp"
	"strings"
)

var (
	// legalSuffixRe matches Norwegian legal-entity abbreviations as whole
	// words, e.g. "Kiwi Gulskogen AS" → "Kiwi Gulskogen".
	legalSuffixRe = regexp.MustCompile(`(?i)\b(AS|ASA|ANS|DA|ENK|NUF)\b`)

	// descriptorRe matches location and descriptor tokens that never belong
	// to the brand itself.
	descriptorRe = regexp.MustCompile(`(?i)\b(Drammen|Gulskogen|Senter|Avdeling|Avd|Butikk)\b`)

	digitTokenRe = regexp.MustCompile(`\b\d+\b`)

	// brandCharRe strips everything outside the brand allow-list: letters
	// including Norwegian diacritics, digits, ampersand, space, apostrophe,
	// dot and hyphen.
	brandCharRe = regexp.MustCompile(`[^A-Za-zÆØÅæøå0-9& '.-]`)

	// nameCharRe is stricter: normalized names keep only uppercase letters,
	// digits and spaces. Used for comparisons, never as a search key.
	nameCharRe = regexp.MustCompile(`[^A-ZÆØÅ0-9 ]`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// ExtractBrand derives the canonical brand token from a store name: legal
// suffixes, location qualifiers and standalone digits are dropped, disallowed
// characters removed, whitespace collapsed. The result is both the registry
// search key and the per-run cache key.
func ExtractBrand(name string) string {
	s := legalSuffixRe.ReplaceAllString(name, "")
	s = descriptorRe.ReplaceAllString(s, "")
	s = digitTokenRe.ReplaceAllString(s, "")
	s = brandCharRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeName uppercases a name and strips everything outside letters,
// digits and spaces. Unlike ExtractBrand it drops "&", "." and "-", because
// punctuation variants of the same name must compare equal.
func NormalizeName(name string) string {
	s := strings.ToUpper(name)
	s = nameCharRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FuzzyScore rates how well a registry candidate name matches a store name,
// 0.0–1.0. Tiers are evaluated in strict precedence order and the first hit
// wins; tiers 1–4 are symmetric in their two arguments.
func FuzzyScore(storeName, candidateName string) float64 {
	a := NormalizeName(storeName)
	b := NormalizeName(candidateName)
	if a == b {
		return 1.0
	}
	if strings.Contains(b, a) || strings.Contains(a, b) {
		return 0.9
	}

	brandA := NormalizeName(ExtractBrand(storeName))
	brandB := NormalizeName(ExtractBrand(candidateName))
	if brandA == brandB {
		return 0.85
	}
	if strings.Contains(brandB, brandA) || strings.Contains(brandA, brandB) {
		return 0.7
	}

	aWords := brandWords(brandA)
	bWords := brandWords(brandB)
	matches := 0
	for _, w := range aWords {
		for _, bw := range bWords {
			if strings.Contains(bw, w) || strings.Contains(w, bw) {
				matches++
				break
			}
		}
	}
	ratio := float64(matches) / math.Max(float64(len(aWords)), 1)
	return ratio * 0.6
}

// brandWords splits a normalized brand into its words, dropping single-rune
// tokens that would match almost anything.
func brandWords(brand string) []string {
	var words []string
	for _, w := range strings.Split(brand, " ") {
		if len([]rune(w)) > 1 {
			words = append(words, w)
		}
	}
	return words
}
