package report

import (
	"fmt"
	"math"
)

// FormatNumber renders a measurement value for display: exponential notation
// for very small or very large magnitudes, six significant digits otherwise.
func FormatNumber(num float64) string {
	if num == 0 {
		return "0"
	}
	abs := math.Abs(num)
	if abs < 1e-12 || abs >= 1e6 {
		return fmt.Sprintf("%.4e", num)
	}
	if abs < 0.001 {
		return fmt.Sprintf("%.4e", num)
	}
	return fmt.Sprintf("%.6g", num)
}

// Placeholder rendered for a die with no value for a given pivot row.
const noValue = "—"
