package profiling

import (
	"math"
	"testing"

	"gomeasure/domain/core"
	"gomeasure/internal/testkit"
)

func TestDistribution_UniformSpread(t *testing.T) {
	agg := testkit.FromTimes(t, "bench", []uint64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90})

	dist, err := Distribution(agg, 9)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist.BinEdges) != 10 {
		t.Fatalf("bin edges: got %d, want 10", len(dist.BinEdges))
	}
	if len(dist.Frequencies) != 9 {
		t.Fatalf("frequencies: got %d, want 9", len(dist.Frequencies))
	}

	total := 0
	for _, f := range dist.Frequencies {
		total += f
	}
	if total != 10 {
		t.Errorf("frequency total: got %d, want 10", total)
	}
	if dist.BinEdges[0] != 0 || dist.BinEdges[9] != 90 {
		t.Errorf("edges: got [%v, %v], want [0, 90]", dist.BinEdges[0], dist.BinEdges[9])
	}
	// Evenly spread values are not skewed.
	if math.Abs(dist.Skewness) > 0.2 {
		t.Errorf("skewness of uniform data: got %v", dist.Skewness)
	}
}

func TestDistribution_DegenerateRange(t *testing.T) {
	agg := testkit.Constant(t, "bench", 20, 500)

	dist, err := Distribution(agg, 5)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if dist.Frequencies[0] != 20 {
		t.Errorf("degenerate range should put everything in the first bin, got %v", dist.Frequencies)
	}
	for i := 1; i < 5; i++ {
		if dist.Frequencies[i] != 0 {
			t.Errorf("bin %d: got %d, want 0", i, dist.Frequencies[i])
		}
	}
	if dist.Skewness != 0 || dist.Kurtosis != 0 {
		t.Errorf("shape of constant data: got skew %v kurt %v", dist.Skewness, dist.Kurtosis)
	}
}

func TestDistribution_InvalidInputs(t *testing.T) {
	agg := testkit.FromTimes(t, "bench", []uint64{1, 2, 3})
	if _, err := Distribution(agg, 0); !core.IsContractViolation(err) {
		t.Errorf("zero bins: expected contract violation, got %v", err)
	}

	empty := testkit.FromTimes(t, "bench", nil)
	if _, err := Distribution(empty, 10); !core.IsInsufficientData(err) {
		t.Errorf("empty aggregate: expected insufficient data, got %v", err)
	}
}

func TestHDRSnapshot(t *testing.T) {
	agg := testkit.FromTimes(t, "bench", []uint64{1000, 2000, 3000, 4000, 5000})

	h, err := HDRSnapshot(agg)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if h.TotalCount() != 5 {
		t.Errorf("total count: got %d, want 5", h.TotalCount())
	}
	// 3 significant digits keep the median within 0.1% of the exact value.
	if median := h.ValueAtQuantile(50); median < 2995 || median > 3005 {
		t.Errorf("median: got %d, want ~3000", median)
	}

	empty := testkit.FromTimes(t, "bench", nil)
	if _, err := HDRSnapshot(empty); !core.IsInsufficientData(err) {
		t.Errorf("empty aggregate: expected insufficient data, got %v", err)
	}
}

func TestTrend_StableRun(t *testing.T) {
	// Alternating noise around a flat mean: no drift component at all.
	times := make([]uint64, 50)
	for i := range times {
		times[i] = 1_000_000
		if i%2 == 0 {
			times[i] += 5_000
		}
	}
	agg := testkit.FromTimes(t, "stable", times)

	trend := Trend(agg)
	if !trend.Stable {
		t.Errorf("alternating run should be stable, correlation %v", trend.Correlation)
	}
	if math.Abs(trend.Correlation) > 0.1 {
		t.Errorf("correlation: got %v, want near 0", trend.Correlation)
	}
}

func TestTrend_DriftingRun(t *testing.T) {
	// A strictly increasing ramp has correlation exactly 1.
	times := make([]uint64, 20)
	for i := range times {
		times[i] = uint64(1000 + 100*i)
	}
	agg := testkit.FromTimes(t, "ramp", times)

	trend := Trend(agg)
	if trend.Stable {
		t.Error("monotone ramp should not be stable")
	}
	if math.Abs(trend.Correlation-1) > 1e-9 {
		t.Errorf("correlation: got %v, want 1", trend.Correlation)
	}
	if math.Abs(trend.Slope-100) > 1e-9 {
		t.Errorf("slope: got %v, want 100", trend.Slope)
	}
}

func TestTrend_TooFewSamples(t *testing.T) {
	agg := testkit.FromTimes(t, "bench", []uint64{5, 500})
	trend := Trend(agg)
	if !trend.Stable || trend.Slope != 0 || trend.Correlation != 0 {
		t.Errorf("short run should default to a flat stable trend, got %+v", trend)
	}
}

func TestTrend_ConstantRun(t *testing.T) {
	agg := testkit.Constant(t, "bench", 10, 777)
	trend := Trend(agg)
	if !trend.Stable || trend.Correlation != 0 {
		t.Errorf("constant run: got %+v", trend)
	}
	if trend.Slope != 0 {
		t.Errorf("constant run slope: got %v, want 0", trend.Slope)
	}
}

func TestMemory(t *testing.T) {
	agg, err := testkit.Generate(testkit.GeneratorConfig{
		Name: "alloc", Count: 10, BaseNS: 1000, JitterNS: 100, AllocKB: 64, Seed: 5,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	mem, err := Memory(agg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if mem.AllocationRate != 64 {
		t.Errorf("allocation rate: got %v, want 64", mem.AllocationRate)
	}
	// Heap grows 64KB per op from the 4096KB baseline.
	if want := uint64(4096 + 10*64); mem.PeakKB != want {
		t.Errorf("peak: got %d, want %d", mem.PeakKB, want)
	}
	if want := 1.0 / 64.0; math.Abs(mem.MemoryEfficiency-want) > 1e-12 {
		t.Errorf("efficiency: got %v, want %v", mem.MemoryEfficiency, want)
	}
	// Constant allocation has zero variance, so no correlation with time.
	if mem.GCImpact != 0 {
		t.Errorf("gc impact of constant allocation: got %v", mem.GCImpact)
	}
}

func TestMemory_NoAllocations(t *testing.T) {
	agg := testkit.FromTimes(t, "bench", []uint64{100, 200, 300})
	mem, err := Memory(agg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if mem.AllocationRate != 0 {
		t.Errorf("allocation rate: got %v, want 0", mem.AllocationRate)
	}
	if !math.IsInf(mem.MemoryEfficiency, 1) {
		t.Errorf("efficiency with zero allocation: got %v, want +Inf", mem.MemoryEfficiency)
	}
}

func TestMemory_Empty(t *testing.T) {
	empty := testkit.FromTimes(t, "bench", nil)
	if _, err := Memory(empty); !core.IsInsufficientData(err) {
		t.Errorf("expected insufficient data, got %v", err)
	}
}
