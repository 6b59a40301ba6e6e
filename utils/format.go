package utils

import "math"

// FormatHours normalizes an hours value to two decimal places using
// standard rounding. NaN and infinities count as zero.
func FormatHours(hours float64) float64 {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0
	}
	return math.Round(hours*100) / 100
}
