package inference

import (
	"sort"

	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
)

// Pairwise runs Welch's t-test across all C(k,2) group pairs and applies the
// Holm-Bonferroni step-down correction. Results are ordered by ascending raw
// p-value (the order the step-down walks). Requires at least 2 groups, each
// with at least 2 observations.
func Pairwise(groups []*sample.Aggregate, alpha float64) ([]stats.Comparison, error) {
	moments, err := collectMoments(groups, "pairwise significance", false)
	if err != nil {
		return nil, err
	}
	if !(alpha > 0) || alpha >= 1 {
		alpha = DefaultAlpha
	}

	comparisons := make([]stats.Comparison, 0, len(moments)*(len(moments)-1)/2)
	for i := 0; i < len(moments); i++ {
		for j := i + 1; j < len(moments); j++ {
			mi, mj := moments[i], moments[j]
			tStat, df := welchT(mi.mean, mi.variance, mi.n, mj.mean, mj.variance, mj.n)
			p := twoTailedP(tStat, df)
			comparisons = append(comparisons, stats.Comparison{
				A:          mi.name,
				B:          mj.name,
				IndexA:     mi.index,
				IndexB:     mj.index,
				TStatistic: tStat,
				DF:         df,
				PValue:     p,
				PAdjusted:  p,
			})
		}
	}

	holmAdjust(comparisons)
	for i := range comparisons {
		comparisons[i].Significant = comparisons[i].PAdjusted <= alpha
	}
	return comparisons, nil
}

// holmAdjust applies the Holm-Bonferroni step-down in place: sort ascending
// by raw p-value, multiply by the number of remaining hypotheses, enforce
// monotonic non-decrease, cap at 1. Guarantees PAdjusted >= PValue.
func holmAdjust(comparisons []stats.Comparison) {
	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].PValue < comparisons[j].PValue
	})

	m := len(comparisons)
	for i := range comparisons {
		adjusted := comparisons[i].PValue * float64(m-i)
		if i > 0 && adjusted < comparisons[i-1].PAdjusted {
			adjusted = comparisons[i-1].PAdjusted
		}
		if adjusted > 1 {
			adjusted = 1
		}
		comparisons[i].PAdjusted = adjusted
	}
}
