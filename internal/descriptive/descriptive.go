// Package descriptive implements the analysis-phase statistics over a sample
// aggregate. Every function treats the aggregate as read-only and reports
// mathematically undefined outputs as NaN rather than coercing them to zero.
package descriptive

import (
	"math"
	"sort"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
)

// Epsilon below which a mean or deviation is treated as zero.
const Epsilon = 1e-15

// Standard percentiles.
const (
	PercentileQ1     = 25.0
	PercentileMedian = 50.0
	PercentileQ3     = 75.0
)

// Mean returns the arithmetic mean of the timing column in ns. The summation
// runs in uint64 with an explicit overflow check; a partial sum that would
// wrap yields NaN instead of a silently wrong value. NaN for an empty
// aggregate.
func Mean(a *sample.Aggregate) float64 {
	n := a.Count()
	if n == 0 {
		return math.NaN()
	}

	var sum uint64
	for i := 0; i < n; i++ {
		v := a.At(i).TimeNS
		if sum > math.MaxUint64-v {
			return math.NaN()
		}
		sum += v
	}
	return float64(sum) / float64(n)
}

// Variance returns the sample variance (n-1 denominator) of the timing
// column. Two-pass with Kahan-compensated summation of squared deviations.
// 0 for a single observation, NaN for an empty aggregate or an unavailable
// mean.
func Variance(a *sample.Aggregate) float64 {
	n := a.Count()
	switch {
	case n == 0:
		return math.NaN()
	case n == 1:
		return 0
	}

	mean := Mean(a)
	if !isFinite(mean) {
		return math.NaN()
	}

	var sumSq, compensation float64
	for i := 0; i < n; i++ {
		diff := float64(a.At(i).TimeNS) - mean
		sq := diff * diff

		y := sq - compensation
		t := sumSq + y
		compensation = (t - sumSq) - y
		sumSq = t
	}
	return sumSq / float64(n-1)
}

// StdDev returns the sample standard deviation.
func StdDev(a *sample.Aggregate) float64 {
	return math.Sqrt(Variance(a))
}

// Percentile returns the p-th percentile of the timing column using linear
// interpolation between order statistics on a sorted copy. p outside [0,100]
// is a contract violation. NaN for an empty aggregate.
func Percentile(a *sample.Aggregate, p float64) (float64, error) {
	if p < 0 || p > 100 || !isFinite(p) {
		return math.NaN(), core.ErrInvalidPercentile
	}
	if a.Count() == 0 {
		return math.NaN(), nil
	}
	return percentileFromSorted(sortedTimes(a), p), nil
}

// sortedTimes copies the timing column and sorts it ascending; the aggregate
// itself is never reordered.
func sortedTimes(a *sample.Aggregate) []uint64 {
	sorted := a.Times()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func percentileFromSorted(sorted []uint64, p float64) float64 {
	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	return float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight
}

// Min returns the minimum timing via linear scan, NaN for an empty aggregate.
func Min(a *sample.Aggregate) float64 {
	n := a.Count()
	if n == 0 {
		return math.NaN()
	}
	min := a.At(0).TimeNS
	for i := 1; i < n; i++ {
		if v := a.At(i).TimeNS; v < min {
			min = v
		}
	}
	return float64(min)
}

// Max returns the maximum timing via linear scan, NaN for an empty aggregate.
func Max(a *sample.Aggregate) float64 {
	n := a.Count()
	if n == 0 {
		return math.NaN()
	}
	max := a.At(0).TimeNS
	for i := 1; i < n; i++ {
		if v := a.At(i).TimeNS; v > max {
			max = v
		}
	}
	return float64(max)
}

// MAD returns the median absolute deviation from the median. Two sorts: one
// for the median, one for the deviations. NaN for an empty aggregate.
func MAD(a *sample.Aggregate) float64 {
	n := a.Count()
	if n == 0 {
		return math.NaN()
	}

	median := percentileFromSorted(sortedTimes(a), PercentileMedian)
	if !isFinite(median) {
		return math.NaN()
	}

	deviations := make([]float64, n)
	for i := 0; i < n; i++ {
		deviations[i] = math.Abs(float64(a.At(i).TimeNS) - median)
	}
	sort.Float64s(deviations)

	if n%2 == 0 {
		return (deviations[n/2-1] + deviations[n/2]) / 2
	}
	return deviations[n/2]
}

// Median returns the 50th percentile of the timing column.
func Median(a *sample.Aggregate) float64 {
	if a.Count() == 0 {
		return math.NaN()
	}
	return percentileFromSorted(sortedTimes(a), PercentileMedian)
}

// IQR returns the interquartile range Q3-Q1. NaN when unavailable.
func IQR(a *sample.Aggregate) float64 {
	if a.Count() == 0 {
		return math.NaN()
	}
	sorted := sortedTimes(a)
	return percentileFromSorted(sorted, PercentileQ3) - percentileFromSorted(sorted, PercentileQ1)
}

// CV returns the coefficient of variation stddev/mean. NaN when the mean is
// unavailable or indistinguishable from zero.
func CV(a *sample.Aggregate) float64 {
	mean := Mean(a)
	if !isFinite(mean) || math.Abs(mean) <= Epsilon {
		return math.NaN()
	}
	return StdDev(a) / mean
}

// Throughput returns operations per second, 1/mean_seconds. NaN when the mean
// is unavailable or not meaningfully positive.
func Throughput(a *sample.Aggregate) float64 {
	meanSec := Mean(a) / 1e9
	if !isFinite(meanSec) || meanSec <= Epsilon {
		return math.NaN()
	}
	return 1 / meanSec
}

// AllocatedKBPerOp returns the mean per-operation allocation. NaN for an
// empty aggregate.
func AllocatedKBPerOp(a *sample.Aggregate) float64 {
	if a.Count() == 0 {
		return math.NaN()
	}
	return float64(a.SumAllocatedKB()) / float64(a.Count())
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
