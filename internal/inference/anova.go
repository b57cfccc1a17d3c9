package inference

import (
	"gonum.org/v1/gonum/stat/distuv"

	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
)

// WelchANOVA runs Welch's one-way ANOVA across the groups: an omnibus test
// for "any mean differs" that does not assume equal variances. Requires
// >= 2 groups, each with >= 2 observations and positive variance.
func WelchANOVA(groups []*sample.Aggregate) (stats.ANOVA, error) {
	moments, err := collectMoments(groups, "welch anova", true)
	if err != nil {
		return stats.ANOVA{}, err
	}

	k := float64(len(moments))

	// Weighted grand mean with weights w_i = n_i / s_i^2.
	var totalWeight, weightedMeans float64
	weights := make([]float64, len(moments))
	for i, g := range moments {
		weights[i] = float64(g.n) / g.variance
		totalWeight += weights[i]
		weightedMeans += weights[i] * g.mean
	}
	grandMean := weightedMeans / totalWeight

	var between float64
	for i, g := range moments {
		dev := g.mean - grandMean
		between += weights[i] * dev * dev
	}
	numerator := between / (k - 1)

	// Correction for unequal variances: A = sum (1 - w_i/W)^2 / (n_i - 1).
	var correction float64
	for i, g := range moments {
		complement := 1 - weights[i]/totalWeight
		correction += complement * complement / float64(g.n-1)
	}
	denominator := 1 + (2*(k-2)/(k*k-1))*correction

	out := stats.ANOVA{
		FStatistic: numerator / denominator,
		DF1:        k - 1,
		DF2:        (k*k - 1) / (3 * correction),
	}
	if out.DF2 < 1 {
		out.DF2 = 1
	}

	fDist := distuv.F{D1: out.DF1, D2: out.DF2}
	if out.FStatistic > 0 {
		out.PValue = clamp01(1 - fDist.CDF(out.FStatistic))
	} else {
		out.PValue = 1
	}
	return out, nil
}
