// Package outliers flags anomalous timing observations. Both methods return
// either the complete flagged index set or an explicit error, never a partial
// result.
package outliers

import (
	"math"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal/descriptive"
)

const (
	// TukeyMultiplier is the standard IQR fence multiplier.
	TukeyMultiplier = 1.5
	// MADDefaultThreshold flags moderate outliers.
	MADDefaultThreshold = 2.5

	minSamplesTukey = 4
	minSamplesMAD   = 3
)

// Detect runs the selected method with its default threshold.
func Detect(a *sample.Aggregate, method stats.OutlierMethod) ([]int, error) {
	switch method {
	case stats.OutlierTukey:
		return detectTukey(a)
	case stats.OutlierMAD:
		return DetectMAD(a, MADDefaultThreshold)
	default:
		return nil, core.ErrUnknownMethod
	}
}

// detectTukey flags observations outside the Q1/Q3 IQR fences.
func detectTukey(a *sample.Aggregate) ([]int, error) {
	n := a.Count()
	if n < minSamplesTukey {
		return nil, core.NewInsufficientDataError("tukey outlier detection", n, minSamplesTukey)
	}

	q1, err := descriptive.Percentile(a, descriptive.PercentileQ1)
	if err != nil {
		return nil, err
	}
	q3, err := descriptive.Percentile(a, descriptive.PercentileQ3)
	if err != nil {
		return nil, err
	}
	if !isFinite(q1) || !isFinite(q3) {
		return nil, core.ErrDegenerateStatistics
	}

	iqr := q3 - q1
	lower := q1 - TukeyMultiplier*iqr
	upper := q3 + TukeyMultiplier*iqr

	var flagged []int
	for i := 0; i < n; i++ {
		v := float64(a.At(i).TimeNS)
		if v < lower || v > upper {
			flagged = append(flagged, i)
		}
	}
	return flagged, nil
}

// DetectMAD flags observations whose absolute deviation from the median
// exceeds threshold*MAD. A non-positive threshold falls back to the default.
// Degenerate identical data (MAD ~ 0) is an error: the ratio is undefined.
func DetectMAD(a *sample.Aggregate, threshold float64) ([]int, error) {
	n := a.Count()
	if n < minSamplesMAD {
		return nil, core.NewInsufficientDataError("mad outlier detection", n, minSamplesMAD)
	}

	median := descriptive.Median(a)
	mad := descriptive.MAD(a)
	if !isFinite(median) || !isFinite(mad) || mad <= descriptive.Epsilon {
		return nil, core.ErrDegenerateStatistics
	}

	if !(threshold > 0) || !isFinite(threshold) {
		threshold = MADDefaultThreshold
	}

	var flagged []int
	for i := 0; i < n; i++ {
		deviation := math.Abs(float64(a.At(i).TimeNS)-median) / mad
		if deviation > threshold {
			flagged = append(flagged, i)
		}
	}
	return flagged, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
