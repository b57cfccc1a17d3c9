// Package inference implements the group-comparison engines: pairwise
// Welch's t-tests with Holm-Bonferroni correction, Scott-Knott ESD
// clustering, and the Welch one-way ANOVA omnibus test.
package inference

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal/descriptive"
)

// DefaultAlpha is the family-wise significance level.
const DefaultAlpha = 0.05

// groupMoments are the per-group sufficient statistics every engine works
// from.
type groupMoments struct {
	index    int
	name     string
	mean     float64
	variance float64
	n        int
}

// collectMoments validates the group list and extracts sufficient statistics.
// requirePositiveVariance guards procedures (ANOVA, Scott-Knott) whose math
// divides by a group variance.
func collectMoments(groups []*sample.Aggregate, what string, requirePositiveVariance bool) ([]groupMoments, error) {
	if len(groups) < 2 {
		return nil, core.NewGroupCountError(what, len(groups))
	}

	moments := make([]groupMoments, len(groups))
	for i, g := range groups {
		if g == nil {
			return nil, core.NewValidationError("groups", "nil aggregate")
		}
		if g.Count() < 2 {
			return nil, core.NewInsufficientDataError(what+" group "+g.Name(), g.Count(), 2)
		}

		mean := descriptive.Mean(g)
		variance := descriptive.Variance(g)
		if !isFinite(mean) || !isFinite(variance) || variance < 0 {
			return nil, core.ErrDegenerateStatistics
		}
		if requirePositiveVariance && variance <= 0 {
			return nil, core.ErrDegenerateStatistics
		}

		moments[i] = groupMoments{
			index:    i,
			name:     g.Name(),
			mean:     mean,
			variance: variance,
			n:        g.Count(),
		}
	}
	return moments, nil
}

// welchT returns Welch's t-statistic and the Welch-Satterthwaite degrees of
// freedom for two sets of sufficient statistics. A zero standard error (two
// constant groups) yields t=0 with the pooled df fallback.
func welchT(mean1, var1 float64, n1 int, mean2, var2 float64, n2 int) (tStat, df float64) {
	se1 := var1 / float64(n1)
	se2 := var2 / float64(n2)
	seDiff := math.Sqrt(se1 + se2)

	if seDiff > 0 {
		tStat = (mean1 - mean2) / seDiff
	}

	dfNum := (se1 + se2) * (se1 + se2)
	dfDenom := se1*se1/float64(n1-1) + se2*se2/float64(n2-1)
	if dfDenom > 0 {
		df = dfNum / dfDenom
	} else {
		df = float64(n1 + n2 - 2)
	}
	return tStat, df
}

// twoTailedP converts a t-statistic into a two-tailed p-value from the
// continuous Student-t distribution.
func twoTailedP(tStat, df float64) float64 {
	if !isFinite(tStat) || !isFinite(df) || df <= 0 {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(tStat)))
	return clamp01(p)
}

// cohenD returns the absolute standardized effect size with pooled standard
// deviation, 0 when the pooled deviation vanishes.
func cohenD(mean1, var1 float64, n1 int, mean2, var2 float64, n2 int) float64 {
	pooledVar := (float64(n1-1)*var1 + float64(n2-1)*var2) / float64(n1+n2-2)
	pooledSD := math.Sqrt(pooledVar)
	if pooledSD == 0 {
		return 0
	}
	return math.Abs(mean1-mean2) / pooledSD
}

// Compare performs a head-to-head Welch's t-test between two aggregates and
// reports speedup (meanA/meanB) and mean difference alongside significance at
// the given alpha.
func Compare(a, b *sample.Aggregate, alpha float64) (stats.TwoSampleComparison, error) {
	moments, err := collectMoments([]*sample.Aggregate{a, b}, "comparison", false)
	if err != nil {
		return stats.TwoSampleComparison{}, err
	}
	if !(alpha > 0) || alpha >= 1 {
		alpha = DefaultAlpha
	}

	ma, mb := moments[0], moments[1]
	out := stats.TwoSampleComparison{
		Speedup:    math.NaN(),
		Difference: ma.mean - mb.mean,
		PValue:     1,
	}
	if mb.mean > 0 {
		out.Speedup = ma.mean / mb.mean
	}

	seDiff := math.Sqrt(ma.variance/float64(ma.n) + mb.variance/float64(mb.n))
	if seDiff <= descriptive.Epsilon {
		// Indistinguishable spread: treat the groups as identical.
		return out, nil
	}

	tStat, df := welchT(ma.mean, ma.variance, ma.n, mb.mean, mb.variance, mb.n)
	out.PValue = twoTailedP(tStat, df)
	out.Significant = out.PValue <= alpha
	return out, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
