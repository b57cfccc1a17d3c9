// Package confidence implements the t-distribution confidence interval and
// the adaptive resample-size recommendation that drives the runner's
// stop/continue sampling loop.
package confidence

import (
	"math"

	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal/descriptive"
)

// Stopping rule parameters.
const (
	minSampleSize  = 30   // below this, always recommend resampling to 30
	maxResample    = 5000 // hard cap on any recommendation
	minResampleAdd = 10   // a recommendation always adds at least this many
	maxGrowthRatio = 20   // a recommendation never exceeds 20x current n
)

// Quality thresholds on the relative CI width, in percent.
const (
	rciwExcellent  = 2.0
	rciwGood       = 5.0
	rciwAcceptable = 10.0
)

// Estimate computes the confidence interval for the aggregate's timing mean
// at the configured confidence level and evaluates the adaptive stopping
// rule. Deterministic and stateless: identical aggregates always produce the
// identical result.
func Estimate(a *sample.Aggregate) stats.ConfidenceInterval {
	n := a.Count()
	mean := descriptive.Mean(a)
	stddev := descriptive.StdDev(a)
	level := a.ConfidenceLevel()

	ci := stats.ConfidenceInterval{
		Lower:      math.NaN(),
		Upper:      math.NaN(),
		Level:      level,
		RCIW:       math.NaN(),
		SampleSize: n,
		Quality:    stats.QualityUnknown,
	}

	if n == 0 || !isFinite(mean) {
		// No usable mean: the interval stays unavailable. The sampling
		// recommendation is still made from the count alone.
		if n < minSampleSize {
			ci.ResampleSize = minSampleSize
		}
		return ci
	}

	stderr := stddev / math.Sqrt(float64(n))
	tCrit := CriticalValue(n-1, level)

	// Degenerate spread: the interval collapses to the point mean and no
	// amount of resampling changes that. Requires at least two
	// observations so a lone sample is not mistaken for a constant.
	if n >= 2 && stderr <= descriptive.Epsilon {
		ci.Lower = mean
		ci.Upper = mean
		ci.RCIW = 0
		ci.Quality = stats.QualityExcellent
		return ci
	}

	margin := tCrit * stderr
	ci.Lower = mean - margin
	ci.Upper = mean + margin
	if math.Abs(mean) > descriptive.Epsilon {
		ci.RCIW = 2 * margin / math.Abs(mean) * 100
	}
	ci.Quality = qualityFromRCIW(ci.RCIW)

	ci.ResampleSize = recommendResample(n, tCrit, stddev, mean, margin, a.TargetRCIW())
	return ci
}

// qualityFromRCIW grades the relative CI width.
func qualityFromRCIW(rciw float64) stats.Quality {
	switch {
	case !isFinite(rciw):
		return stats.QualityUnknown
	case rciw <= rciwExcellent:
		return stats.QualityExcellent
	case rciw <= rciwGood:
		return stats.QualityGood
	case rciw <= rciwAcceptable:
		return stats.QualityAcceptable
	default:
		return stats.QualityPoor
	}
}

// recommendResample implements the damped closed-loop resample estimate.
// Returns 0 when sampling is sufficient.
func recommendResample(n int, tCrit, stddev, mean, margin, targetRCIW float64) int {
	if n < minSampleSize {
		return minSampleSize
	}

	targetMargin := targetRCIW * math.Abs(mean) / 200
	if !isFinite(targetMargin) || targetMargin <= 0 {
		return 0
	}
	if margin <= targetMargin {
		return 0
	}

	// Required n from the margin formula, then progressively damped so a
	// noisy early estimate cannot trigger runaway sampling.
	required := tCrit * stddev / targetMargin
	required *= required

	ratio := required / float64(n)
	var damped float64
	switch {
	case ratio <= 2:
		damped = ratio
	case ratio <= 5:
		damped = 1 + (ratio-1)*0.8
	case ratio <= 10:
		damped = 1 + (ratio-1)*0.5
	default:
		damped = 1 + 2*math.Log(ratio)
	}

	recommended := int(math.Ceil(float64(n) * damped))

	if recommended < n+minResampleAdd {
		recommended = n + minResampleAdd
	}
	limit := n * maxGrowthRatio
	if limit > maxResample {
		limit = maxResample
	}
	if recommended > limit {
		recommended = limit
	}

	// The cap can fall at or below the current count once n approaches the
	// hard maximum; there is nothing further to recommend then.
	if recommended <= n {
		return 0
	}
	return recommended
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
