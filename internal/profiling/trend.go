package profiling

import (
	"math"

	"gomeasure/domain/sample"
	domstats "gomeasure/domain/stats"
)

// Trend parameters.
const (
	minSamplesTrend    = 3
	stabilityThreshold = 0.1 // |r| below this counts as stable
)

// Trend fits a least-squares line through the timings in arrival order. A
// strong correlation between iteration index and timing means the run was
// drifting (warmup, thermal throttling, accumulating garbage) rather than
// stable. Fewer than 3 observations report a flat, stable trend.
func Trend(a *sample.Aggregate) domstats.TrendStats {
	trend := domstats.TrendStats{Stable: true}
	n := a.Count()
	if n < minSamplesTrend {
		return trend
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := 0; i < n; i++ {
		x := float64(i)
		y := float64(a.At(i).TimeNS)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := float64(n)*sumX2 - sumX*sumX
	if denom == 0 {
		return trend
	}
	trend.Slope = (float64(n)*sumXY - sumX*sumY) / denom

	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := float64(i) - meanX
		dy := float64(a.At(i).TimeNS) - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX > 0 && denY > 0 {
		trend.Correlation = num / math.Sqrt(denX*denY)
	}

	trend.Stable = math.Abs(trend.Correlation) < stabilityThreshold
	return trend
}
