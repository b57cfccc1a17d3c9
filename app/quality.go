package app

import (
	"math"

	"gomeasure/domain/stats"
)

// Composite quality weights and label cutoffs.
const (
	weightInterval    = 0.50
	weightOutlierRate = 0.30
	weightSampleCount = 0.20

	outlierRateCeiling = 25.0 // percent at which the outlier component bottoms out
	sampleCountTarget  = 30.0

	scoreExcellent  = 85.0
	scoreGood       = 65.0
	scoreAcceptable = 40.0
)

// scoreQuality folds interval quality, outlier rate, and sample count into a
// 0-100 score with a label. An unknown interval makes the whole measurement
// unknown since no amount of clean samples rescues an unusable CI.
func scoreQuality(s stats.Summary) (float64, stats.Quality) {
	var intervalScore float64
	switch s.Interval.Quality {
	case stats.QualityExcellent:
		intervalScore = 100
	case stats.QualityGood:
		intervalScore = 75
	case stats.QualityAcceptable:
		intervalScore = 50
	case stats.QualityPoor:
		intervalScore = 25
	default:
		return 0, stats.QualityUnknown
	}

	outlierScore := 100.0
	if !math.IsNaN(s.OutlierPercent) {
		outlierScore = 100 * (1 - math.Min(1, s.OutlierPercent/outlierRateCeiling))
	}

	sampleScore := 100 * math.Min(1, float64(s.SampleCount)/sampleCountTarget)

	score := weightInterval*intervalScore + weightOutlierRate*outlierScore + weightSampleCount*sampleScore

	switch {
	case score >= scoreExcellent:
		return score, stats.QualityExcellent
	case score >= scoreGood:
		return score, stats.QualityGood
	case score >= scoreAcceptable:
		return score, stats.QualityAcceptable
	default:
		return score, stats.QualityPoor
	}
}
