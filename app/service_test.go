package app

import (
	"context"
	"fmt"
	"math"
	"testing"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	"gomeasure/domain/stats"
	"gomeasure/internal/testkit"
)

func newTestService() *AnalysisService {
	return NewAnalysisService(nil, 0.05)
}

func TestSummary_ConstantRun(t *testing.T) {
	svc := newTestService()
	agg := testkit.Constant(t, "constant", 50, 1000)

	summary, err := svc.Summary(context.Background(), agg)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.Name != "constant" || summary.SampleCount != 50 {
		t.Errorf("identity: got %q/%d", summary.Name, summary.SampleCount)
	}
	if summary.Mean != 1000 || summary.Min != 1000 || summary.Max != 1000 {
		t.Errorf("location: got mean %v min %v max %v", summary.Mean, summary.Min, summary.Max)
	}
	if summary.StdDev != 0 || summary.Variance != 0 || summary.IQR != 0 {
		t.Errorf("spread: got sd %v var %v iqr %v", summary.StdDev, summary.Variance, summary.IQR)
	}
	if summary.Percentiles.P50 != 1000 || summary.Percentiles.P99 != 1000 {
		t.Errorf("percentiles: got %+v", summary.Percentiles)
	}
	// 1000ns per op is one million ops per second.
	if math.Abs(summary.Throughput-1e6) > 1e-6 {
		t.Errorf("throughput: got %v", summary.Throughput)
	}

	if summary.Interval.Quality != stats.QualityExcellent || !summary.Interval.Sufficient() {
		t.Errorf("interval: got %+v", summary.Interval)
	}
	if summary.OutlierCount != 0 || summary.OutlierPercent != 0 {
		t.Errorf("outliers: got %d (%v%%)", summary.OutlierCount, summary.OutlierPercent)
	}
	if summary.Quality != stats.QualityExcellent || summary.QualityScore != 100 {
		t.Errorf("quality: got %v (%v)", summary.Quality, summary.QualityScore)
	}
}

func TestSummary_FlagsOutliers(t *testing.T) {
	svc := newTestService()
	agg := testkit.FromTimes(t, "spiky", []uint64{10, 11, 9, 10, 11, 9, 1000})

	summary, err := svc.Summary(context.Background(), agg)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.OutlierCount != 1 {
		t.Errorf("outlier count: got %d, want 1", summary.OutlierCount)
	}
	if math.Abs(summary.OutlierPercent-100.0/7.0) > 1e-9 {
		t.Errorf("outlier percent: got %v", summary.OutlierPercent)
	}
}

func TestSummary_TooFewForOutliers(t *testing.T) {
	svc := newTestService()
	agg := testkit.FromTimes(t, "tiny", []uint64{10, 20, 30})

	summary, err := svc.Summary(context.Background(), agg)
	if err != nil {
		t.Fatalf("summary should tolerate skipped outlier detection: %v", err)
	}
	if summary.OutlierCount != 0 {
		t.Errorf("outlier count: got %d", summary.OutlierCount)
	}
	if !math.IsNaN(summary.OutlierPercent) {
		t.Errorf("outlier percent should be NaN when detection is skipped, got %v", summary.OutlierPercent)
	}
}

func TestSummary_EmptyAggregate(t *testing.T) {
	svc := newTestService()
	agg := testkit.FromTimes(t, "empty", nil)

	if _, err := svc.Summary(context.Background(), agg); !core.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
	if _, err := svc.Summary(context.Background(), nil); !core.IsInsufficientData(err) {
		t.Fatalf("nil aggregate: expected insufficient data, got %v", err)
	}
}

func TestSummary_Deterministic(t *testing.T) {
	svc := newTestService()
	agg, err := testkit.Generate(testkit.DefaultGeneratorConfig("repeat"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	first, err := svc.Summary(context.Background(), agg)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	second, err := svc.Summary(context.Background(), agg)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	// NaN fields break DeepEqual, so compare the numeric fields directly.
	if first.Mean != second.Mean || first.StdDev != second.StdDev ||
		first.Interval != second.Interval || first.QualityScore != second.QualityScore {
		t.Errorf("summary not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestCompare_Routing(t *testing.T) {
	svc := newTestService()
	fast := testkit.FromTimes(t, "fast", []uint64{100, 101, 102, 103, 104})
	slow := testkit.FromTimes(t, "slow", []uint64{200, 201, 202, 203, 204})

	result, err := svc.Compare(context.Background(), fast, slow)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !result.Significant {
		t.Error("clearly separated groups should be significant")
	}
	if math.Abs(result.Speedup-102.0/202.0) > 1e-12 {
		t.Errorf("speedup: got %v", result.Speedup)
	}
}

func TestSuiteReport_SmallSuiteUsesPairwise(t *testing.T) {
	svc := newTestService()
	groups := []*sample.Aggregate{
		testkit.FromTimes(t, "a", []uint64{100, 101, 102, 103, 104}),
		testkit.FromTimes(t, "b", []uint64{200, 201, 202, 203, 204}),
		testkit.FromTimes(t, "c", []uint64{300, 301, 302, 303, 304}),
	}

	report, err := svc.SuiteReport(context.Background(), groups)
	if err != nil {
		t.Fatalf("suite report: %v", err)
	}
	if len(report.Summaries) != 3 {
		t.Fatalf("summaries: got %d, want 3", len(report.Summaries))
	}
	if len(report.Pairwise) != 3 {
		t.Errorf("pairwise: got %d comparisons, want 3", len(report.Pairwise))
	}
	if report.Clusters != nil {
		t.Error("small suite should not produce clusters")
	}
	for i, s := range report.Summaries {
		if s.Name != groups[i].Name() {
			t.Errorf("summary %d: got %q, want %q", i, s.Name, groups[i].Name())
		}
	}
}

func TestSuiteReport_LargeSuiteUsesClusters(t *testing.T) {
	svc := newTestService()
	names := []string{"a", "b", "c", "d", "e", "f"}
	groups := make([]*sample.Aggregate, len(names))
	for i, name := range names {
		base := uint64(100)
		if i >= 3 {
			base = 10_000
		}
		groups[i] = testkit.FromTimes(t, name, []uint64{base, base + 2, base + 4, base + 6, base + 8})
	}

	report, err := svc.SuiteReport(context.Background(), groups)
	if err != nil {
		t.Fatalf("suite report: %v", err)
	}
	if report.Pairwise != nil {
		t.Error("large suite should not run pairwise tests")
	}
	if len(report.Clusters) < 2 {
		t.Fatalf("clusters: got %d, want at least 2", len(report.Clusters))
	}

	total := 0
	for _, c := range report.Clusters {
		total += len(c.Members)
	}
	if total != len(groups) {
		t.Errorf("cluster membership covers %d groups, want %d", total, len(groups))
	}
}

func TestPairwiseSignificance_RejectsLargeSuite(t *testing.T) {
	svc := newTestService()
	groups := make([]*sample.Aggregate, 6)
	for i := range groups {
		base := uint64(100 * (i + 1))
		groups[i] = testkit.FromTimes(t, fmt.Sprintf("g%d", i), []uint64{base, base + 1, base + 2})
	}

	if _, err := svc.PairwiseSignificance(context.Background(), groups); !core.IsContractViolation(err) {
		t.Fatalf("expected contract violation for 6 groups, got %v", err)
	}
}

func TestSuiteReport_RequiresTwoGroups(t *testing.T) {
	svc := newTestService()
	one := []*sample.Aggregate{testkit.FromTimes(t, "a", []uint64{1, 2, 3})}

	if _, err := svc.SuiteReport(context.Background(), one); !core.IsInsufficientData(err) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestSuiteReport_CancelledContext(t *testing.T) {
	svc := newTestService()
	groups := []*sample.Aggregate{
		testkit.FromTimes(t, "a", []uint64{100, 101, 102, 103}),
		testkit.FromTimes(t, "b", []uint64{200, 201, 202, 203}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.SuiteReport(ctx, groups); err == nil {
		t.Fatal("cancelled context should fail the report")
	}
}

func TestOutliers_MethodDispatch(t *testing.T) {
	svc := newTestService()
	agg := testkit.FromTimes(t, "spiky", []uint64{10, 11, 9, 10, 11, 9, 1000})

	for _, method := range []stats.OutlierMethod{stats.OutlierTukey, stats.OutlierMAD} {
		flagged, err := svc.Outliers(context.Background(), agg, method)
		if err != nil {
			t.Fatalf("%v: %v", method, err)
		}
		if len(flagged) != 1 || flagged[0] != 6 {
			t.Errorf("%v: flagged %v, want [6]", method, flagged)
		}
	}
}

func TestScoreQuality_Weighting(t *testing.T) {
	base := stats.Summary{
		SampleCount:    30,
		OutlierPercent: 0,
		Interval:       stats.ConfidenceInterval{Quality: stats.QualityGood},
	}
	score, label := scoreQuality(base)
	// 0.5*75 + 0.3*100 + 0.2*100 = 87.5
	if math.Abs(score-87.5) > 1e-12 {
		t.Errorf("score: got %v, want 87.5", score)
	}
	if label != stats.QualityExcellent {
		t.Errorf("label: got %v, want excellent", label)
	}

	noisy := base
	noisy.Interval.Quality = stats.QualityPoor
	noisy.OutlierPercent = 25
	noisy.SampleCount = 15
	score, label = scoreQuality(noisy)
	// 0.5*25 + 0.3*0 + 0.2*50 = 22.5
	if math.Abs(score-22.5) > 1e-12 {
		t.Errorf("score: got %v, want 22.5", score)
	}
	if label != stats.QualityPoor {
		t.Errorf("label: got %v, want poor", label)
	}

	unknown := base
	unknown.Interval.Quality = stats.QualityUnknown
	score, label = scoreQuality(unknown)
	if score != 0 || label != stats.QualityUnknown {
		t.Errorf("unknown interval: got %v (%v)", label, score)
	}
}
