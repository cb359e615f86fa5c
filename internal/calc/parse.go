package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPrefix  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	integerPrefix = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseNumber leniently parses numeric form input. Leading whitespace is ignored
// and the longest numeric prefix is used ("12.5kg" is 12.5). Unparsable input,
// NaN and infinities yield 0.
func ParseNumber(text string) float64 {
	match := numberPrefix.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseCount leniently parses an integer count such as a number of nights.
// The leading integer is used, unparsable input yields 0 and negative values
// are floored to 0.
func ParseCount(text string) int {
	match := integerPrefix.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}
	v, err := strconv.Atoi(match)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
