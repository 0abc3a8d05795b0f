package plaace

import (
	"math"
	"strconv"
	"strings"
)

// ToNum converts a CSV cell to a number. Empty cells and the "-" sentinel
// mean "value absent" and map to nil; a decimal comma is converted to a
// point before parsing. Unparsable cells also map to nil; a defaulted
// field, not an error.
func ToNum(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ToInt converts a CSV cell to an integer, returning 0 when it does not
// start with digits.
func ToInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if strings.HasPrefix(s, "-") {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// RoundF rounds to d decimal places, half away from zero.
func RoundF(v float64, d int) float64 {
	f := math.Pow(10, float64(d))
	return math.Round(v*f) / f
}

// Round rounds a nullable number to d decimal places, passing nil through.
// Values are rounded exactly once, when a dataset is built.
func Round(v *float64, d int) *float64 {
	if v == nil {
		return nil
	}
	r := RoundF(*v, d)
	return &r
}

// orZero unwraps a nullable number for aggregation.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
