package util

import (
	"strconv"
)

// MustParseUint parses an unsigned id from a path segment, returning 0 on
// malformed input.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// FormatScore renders a 0..1 score with two decimals, e.g. "0.75".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
