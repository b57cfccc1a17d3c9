// Package profiling provides the secondary run analyses: distribution shape,
// performance trend over arrival order, and memory behavior.
package profiling

import (
	"math"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/montanaflynn/stats"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	domstats "gomeasure/domain/stats"
)

// DefaultBins is the default histogram bin count.
const DefaultBins = 10

// Distribution builds an equal-width histogram of the timing column over
// [min, max] and computes shape statistics. When all values are identical the
// range collapses and every observation lands in the first bin.
func Distribution(a *sample.Aggregate, bins int) (domstats.Distribution, error) {
	if bins <= 0 {
		return domstats.Distribution{}, core.NewValidationError("bins", "must be positive")
	}
	if a.Count() == 0 {
		return domstats.Distribution{}, core.NewInsufficientDataError("distribution", 0, 1)
	}

	times := a.Times()
	minVal, maxVal := times[0], times[0]
	for _, v := range times {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	dist := domstats.Distribution{
		BinEdges:    make([]float64, bins+1),
		Frequencies: make([]int, bins),
	}

	span := float64(maxVal - minVal)
	if span <= 1e-15 {
		for i := 0; i <= bins; i++ {
			dist.BinEdges[i] = float64(minVal) + float64(i)*1e-15
		}
		dist.Frequencies[0] = len(times)
	} else {
		for i := 0; i <= bins; i++ {
			dist.BinEdges[i] = float64(minVal) + span*float64(i)/float64(bins)
		}
		for _, v := range times {
			idx := int(float64(v-minVal) / span * float64(bins))
			if idx >= bins {
				idx = bins - 1
			}
			dist.Frequencies[idx]++
		}
	}

	data := make([]float64, len(times))
	for i, v := range times {
		data[i] = float64(v)
	}
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviationSample(data)
	dist.Skewness = calculateSkewness(data, mean, stdDev)
	dist.Kurtosis = calculateKurtosis(data, mean, stdDev)

	return dist, nil
}

// HDRSnapshot converts the timing column into an HDR histogram (3 significant
// digits) for compact export to the reporting collaborator. The exact
// percentile contract stays with internal/descriptive; this is the lossy,
// transport-friendly view.
func HDRSnapshot(a *sample.Aggregate) (*hdrhistogram.Histogram, error) {
	if a.Count() == 0 {
		return nil, core.NewInsufficientDataError("hdr snapshot", 0, 1)
	}

	highest := int64(1)
	times := a.Times()
	for _, v := range times {
		if int64(v) > highest {
			highest = int64(v)
		}
	}

	h := hdrhistogram.New(1, highest, 3)
	for _, v := range times {
		if err := h.RecordValue(int64(v)); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// calculateSkewness computes sample skewness using the adjusted
// Fisher-Pearson coefficient.
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev <= 0 {
		return 0
	}

	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	skewness := sumCubed / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// calculateKurtosis computes sample kurtosis (not excess).
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev <= 0 {
		return 0
	}

	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	kurtosis := sumFourth / n
	excess := kurtosis - 3
	correction := (n - 1) / ((n - 2) * (n - 3))
	excess = excess*correction + 6/(n+1)
	return excess + 3
}
