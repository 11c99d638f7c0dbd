// Package stats turns a loaded WPro table into the two statistical views a
// test engineer reads: per-parameter descriptive statistics across the whole
// lot, and a pivot keyed by wafer, temperature, device and parameter with
// one column per die.
package stats

import (
	"math"
	"strconv"
	"strings"
)

// Coerce opportunistically parses a cell as a number. Blank cells,
// non-numeric text and NaN are excluded rather than zero-filled; every
// aggregate in this package feeds through this one step.
func Coerce(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
