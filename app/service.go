// Package app wires the analysis packages into a single service facade.
package app

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal"
	"gomeasure/internal/confidence"
	"gomeasure/internal/descriptive"
	"gomeasure/internal/inference"
	"gomeasure/internal/outliers"
)

// Suite sizes at which pairwise testing gives way to cluster ranking. With
// many groups the Holm correction becomes too conservative to be useful, so
// larger suites are ranked with Scott-Knott ESD instead.
const (
	minSuiteGroups   = 2
	maxPairwiseSuite = 5
)

// AnalysisService is the entry point for reading results out of collected
// benchmark aggregates.
type AnalysisService struct {
	logger *internal.Logger
	alpha  float64
}

// NewAnalysisService creates a service with the given significance level.
// Alpha outside (0, 1) falls back to the conventional 0.05.
func NewAnalysisService(logger *internal.Logger, alpha float64) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = inference.DefaultAlpha
	}
	return &AnalysisService{logger: logger, alpha: alpha}
}

// Summary computes the full descriptive report for one aggregate. An empty
// aggregate is a contract violation; degenerate statistics inside a
// non-empty aggregate surface as NaN fields, never as an error.
func (s *AnalysisService) Summary(ctx context.Context, agg *sample.Aggregate) (stats.Summary, error) {
	if err := ctx.Err(); err != nil {
		return stats.Summary{}, err
	}
	if agg == nil || agg.Count() == 0 {
		return stats.Summary{}, core.NewInsufficientDataError("summary", 0, 1)
	}

	n := agg.Count()
	mean := descriptive.Mean(agg)
	variance := descriptive.Variance(agg)

	summary := stats.Summary{
		Name:        agg.Name(),
		SampleCount: n,
		Mean:        mean,
		Variance:    variance,
		StdDev:      math.Sqrt(variance),
		Min:         descriptive.Min(agg),
		Max:         descriptive.Max(agg),
		CV:          descriptive.CV(agg),
		IQR:         descriptive.IQR(agg),
		Throughput:  descriptive.Throughput(agg),
	}
	summary.AllocatedKBPerOp = descriptive.AllocatedKBPerOp(agg)

	summary.Percentiles = stats.Percentiles{
		P25: mustPercentile(agg, 25),
		P50: mustPercentile(agg, 50),
		P75: mustPercentile(agg, 75),
		P90: mustPercentile(agg, 90),
		P95: mustPercentile(agg, 95),
		P99: mustPercentile(agg, 99),
	}

	summary.Interval = confidence.Estimate(agg)

	flagged, err := outliers.Detect(agg, stats.OutlierTukey)
	switch {
	case err == nil:
		summary.OutlierCount = len(flagged)
		summary.OutlierPercent = 100 * float64(len(flagged)) / float64(n)
	case core.IsInsufficientData(err):
		s.logger.Debug("summary %s: outlier detection skipped: %v", agg.Name(), err)
		summary.OutlierPercent = math.NaN()
	default:
		return stats.Summary{}, fmt.Errorf("summary %s: outlier detection: %w", agg.Name(), err)
	}

	summary.QualityScore, summary.Quality = scoreQuality(summary)
	return summary, nil
}

// mustPercentile is for levels that are compile-time constants and in range.
func mustPercentile(agg *sample.Aggregate, p float64) float64 {
	v, err := descriptive.Percentile(agg, p)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Outliers flags observations by index with the given method.
func (s *AnalysisService) Outliers(ctx context.Context, agg *sample.Aggregate, method stats.OutlierMethod) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outliers.Detect(agg, method)
}

// Compare runs a two-sample Welch comparison of a against b.
func (s *AnalysisService) Compare(ctx context.Context, a, b *sample.Aggregate) (stats.TwoSampleComparison, error) {
	if err := ctx.Err(); err != nil {
		return stats.TwoSampleComparison{}, err
	}
	return inference.Compare(a, b, s.alpha)
}

// PairwiseSignificance runs all pairwise Welch tests with Holm correction.
// Suites larger than maxPairwiseSuite are rejected toward ClusterSignificance.
func (s *AnalysisService) PairwiseSignificance(ctx context.Context, groups []*sample.Aggregate) ([]stats.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(groups) > maxPairwiseSuite {
		return nil, core.NewValidationError("groups",
			fmt.Sprintf("pairwise testing supports at most %d groups, got %d; use cluster ranking", maxPairwiseSuite, len(groups)))
	}
	return inference.Pairwise(groups, s.alpha)
}

// ClusterSignificance ranks groups into statistically distinct clusters.
func (s *AnalysisService) ClusterSignificance(ctx context.Context, groups []*sample.Aggregate) ([]stats.Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return inference.ScottKnottESD(groups, s.alpha, inference.DefaultMinEffect)
}

// SuiteReport analyzes a whole benchmark suite. Summaries are computed
// concurrently, then significance testing routes on suite size: up to 5
// groups get pairwise Welch tests, 6 or more get Scott-Knott clusters.
func (s *AnalysisService) SuiteReport(ctx context.Context, groups []*sample.Aggregate) (*stats.SuiteReport, error) {
	if len(groups) < minSuiteGroups {
		return nil, core.NewGroupCountError("suite report", len(groups))
	}

	report := &stats.SuiteReport{
		Summaries: make([]stats.Summary, len(groups)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, agg := range groups {
		i, agg := i, agg
		g.Go(func() error {
			summary, err := s.Summary(gctx, agg)
			if err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			report.Summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var err error
	if len(groups) <= maxPairwiseSuite {
		s.logger.Debug("suite report: running pairwise tests across %d groups", len(groups))
		report.Pairwise, err = inference.Pairwise(groups, s.alpha)
	} else {
		s.logger.Debug("suite report: ranking %d groups with Scott-Knott ESD", len(groups))
		report.Clusters, err = inference.ScottKnottESD(groups, s.alpha, inference.DefaultMinEffect)
	}
	if err != nil {
		return nil, fmt.Errorf("suite report: %w", err)
	}
	return report, nil
}
