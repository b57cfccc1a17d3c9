package confidence

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZValue returns the exact two-sided standard-normal critical value for a
// confidence level given as a fraction in (0, 1). It refines the coarse
// z approximations used by the t-table fallback when a caller needs full
// precision (e.g. 0.95 -> 1.9599639845...). NaN for an out-of-domain level.
func ZValue(confidenceLevel float64) float64 {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return math.NaN()
	}
	alpha := 1 - confidenceLevel
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}
