// Package mathutil provides tolerance-aware comparisons for compartment sizes.
package mathutil

import (
	"math"

	"github.com/iwvelando/sir-forecast/pkg/constants"
)

// IsZero checks if a population count is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.PopulationTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.PopulationTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.PopulationTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// RelativeDifference returns |a-b| scaled by the larger magnitude of the two.
// Two values that are both effectively zero have no relative difference.
func RelativeDifference(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale <= constants.PopulationTolerance {
		return 0
	}
	return math.Abs(a-b) / scale
}

// Share returns part as a fraction of total, or 0 for an empty total.
func Share(part, total float64) float64 {
	if IsZero(total) {
		return 0
	}
	return part / total
}
