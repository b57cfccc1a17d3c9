package inference

import (
	"sort"

	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
)

// DefaultMinEffect is the Cohen's d floor a split must clear to count as a
// practically meaningful partition (the "medium" effect size).
const DefaultMinEffect = 0.5

// pooled holds the combined moments of a contiguous run of groups, rebuilt
// from per-group sufficient statistics: sum of values and sum of squares.
type pooled struct {
	mean     float64
	variance float64
	count    int
}

// poolMoments combines groups[start:end] into one aggregate distribution.
func poolMoments(groups []groupMoments, start, end int) pooled {
	var sum, sumSq float64
	var count int
	for i := start; i < end; i++ {
		g := groups[i]
		n := float64(g.n)
		sum += g.mean * n
		sumSq += g.variance*(n-1) + g.mean*g.mean*n
		count += g.n
	}

	out := pooled{count: count}
	if count == 0 {
		return out
	}
	out.mean = sum / float64(count)
	if count > 1 {
		v := (sumSq - sum*sum/float64(count)) / float64(count-1)
		if v > 0 {
			out.variance = v
		}
	}
	return out
}

// betweenSS returns the between-subset sum of squares for splitting
// groups[start:end] at split.
func betweenSS(groups []groupMoments, start, end, split int) float64 {
	var leftSum, rightSum float64
	var leftCount, rightCount int
	for i := start; i < split; i++ {
		leftSum += groups[i].mean * float64(groups[i].n)
		leftCount += groups[i].n
	}
	for i := split; i < end; i++ {
		rightSum += groups[i].mean * float64(groups[i].n)
		rightCount += groups[i].n
	}
	if leftCount == 0 || rightCount == 0 {
		return 0
	}

	leftMean := leftSum / float64(leftCount)
	rightMean := rightSum / float64(rightCount)
	overall := (leftSum + rightSum) / float64(leftCount+rightCount)

	return float64(leftCount)*(leftMean-overall)*(leftMean-overall) +
		float64(rightCount)*(rightMean-overall)*(rightMean-overall)
}

// bestSplit searches all contiguous splits of groups[start:end] and returns
// the one maximizing the between-subset sum of squares.
func bestSplit(groups []groupMoments, start, end int) int {
	best := start + 1
	maxSS := 0.0
	for split := start + 1; split < end; split++ {
		if ss := betweenSS(groups, start, end, split); ss > maxSS {
			maxSS = ss
			best = split
		}
	}
	return best
}

// acceptSplit decides whether the partition at split is both statistically
// supported (Welch's t between the pooled subsets rejects at alpha) and
// effect-size supported (Cohen's d between the pooled subsets clears
// minEffect).
func acceptSplit(groups []groupMoments, start, split, end int, alpha, minEffect float64) bool {
	left := poolMoments(groups, start, split)
	right := poolMoments(groups, split, end)
	if left.count < 2 || right.count < 2 {
		return false
	}

	d := cohenD(left.mean, left.variance, left.count, right.mean, right.variance, right.count)
	if d < minEffect {
		return false
	}

	tStat, df := welchT(left.mean, left.variance, left.count, right.mean, right.variance, right.count)
	return twoTailedP(tStat, df) <= alpha
}

// partition recursively applies Scott-Knott splitting to groups[start:end],
// assigning cluster numbers in ascending-mean order.
func partition(groups []groupMoments, start, end int, assignments []int, next *int, alpha, minEffect float64) {
	if end-start <= 1 {
		for i := start; i < end; i++ {
			assignments[i] = *next
		}
		*next++
		return
	}

	split := bestSplit(groups, start, end)
	if !acceptSplit(groups, start, split, end, alpha, minEffect) {
		for i := start; i < end; i++ {
			assignments[i] = *next
		}
		*next++
		return
	}

	partition(groups, start, split, assignments, next, alpha, minEffect)
	partition(groups, split, end, assignments, next, alpha, minEffect)
}

// ScottKnottESD partitions the groups into statistically and effect-size
// distinct clusters. Groups are sorted by mean; each recursion level picks
// the contiguous split maximizing between-subset sum of squares and accepts
// it only when both the hypothesis test and the Cohen's d gate pass.
//
// Cluster IDs are 1-based in ascending order of mean. Each cluster reports
// its pooled mean/variance/count and Cohen's d against its
// strongest-contrasting neighbor; MaxContrastWith is present only when more
// than one cluster exists. Requires >= 2 groups, each with >= 2 observations
// and positive variance.
func ScottKnottESD(groups []*sample.Aggregate, alpha, minEffect float64) ([]stats.Cluster, error) {
	moments, err := collectMoments(groups, "scott-knott esd", true)
	if err != nil {
		return nil, err
	}
	if !(alpha > 0) || alpha >= 1 {
		alpha = DefaultAlpha
	}
	if !(minEffect > 0) {
		minEffect = DefaultMinEffect
	}

	sort.SliceStable(moments, func(i, j int) bool { return moments[i].mean < moments[j].mean })

	assignments := make([]int, len(moments))
	clusterCount := 0
	partition(moments, 0, len(moments), assignments, &clusterCount, alpha, minEffect)

	// Pool each final cluster's moments.
	pooledStats := make([]pooled, clusterCount)
	memberRanges := make([][2]int, clusterCount)
	for c := 0; c < clusterCount; c++ {
		start, end := -1, -1
		for i, assigned := range assignments {
			if assigned != c {
				continue
			}
			if start < 0 {
				start = i
			}
			end = i + 1
		}
		pooledStats[c] = poolMoments(moments, start, end)
		memberRanges[c] = [2]int{start, end}
	}

	clusters := make([]stats.Cluster, clusterCount)
	for c := 0; c < clusterCount; c++ {
		cl := stats.Cluster{
			ID:       c + 1,
			Mean:     pooledStats[c].mean,
			Variance: pooledStats[c].variance,
			Count:    pooledStats[c].count,
		}
		for i := memberRanges[c][0]; i < memberRanges[c][1]; i++ {
			cl.Members = append(cl.Members, moments[i].name)
			cl.MemberIndexes = append(cl.MemberIndexes, moments[i].index)
		}

		// Strongest contrast against any other cluster.
		maxD := 0.0
		contrast := 0
		for o := 0; o < clusterCount; o++ {
			if o == c || pooledStats[o].count == 0 {
				continue
			}
			d := cohenD(pooledStats[c].mean, pooledStats[c].variance, pooledStats[c].count,
				pooledStats[o].mean, pooledStats[o].variance, pooledStats[o].count)
			if d > maxD {
				maxD = d
				contrast = o + 1
			}
		}
		cl.CohenD = maxD
		if clusterCount > 1 {
			cl.MaxContrastWith = contrast
		}
		clusters[c] = cl
	}
	return clusters, nil
}
