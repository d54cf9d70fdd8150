package coverage

import "math"

// Percent returns covered/total as a percentage truncated (not rounded) to
// two decimal places. Integer scaling keeps float drift from pushing a value
// like 999998/999999 up to 100. A zero total counts as fully covered.
func Percent(covered, total uint32) float64 {
	if total == 0 {
		return 100.0
	}

	scaled := uint64(covered) * 100 * 1000 / uint64(total)

	return math.Floor(float64(scaled)/10) / 100
}
