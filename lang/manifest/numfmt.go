package manifest

import (
	"math"
	"strconv"
)

// FormatNumber renders f as the shortest round-trip decimal, matching
// spec.md §4.6: "integer-valued doubles render without trailing .0 except
// where a format ... demands it." Always plain decimal notation, never
// scientific: 'g' switches to exponent form past magnitude 1e6 or below
// 1e-4, but original_source's manifester renders via Rust's plain f64
// Display, which never does — so 'f' (not 'g') is the verb that matches,
// with prec=-1 still choosing the shortest round-trip digit count.
func FormatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
