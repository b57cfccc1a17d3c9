package stats

import "fmt"

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// Quality grades a statistical result for reporting.
type Quality string

const (
	QualityExcellent  Quality = "excellent"
	QualityGood       Quality = "good"
	QualityAcceptable Quality = "acceptable"
	QualityPoor       Quality = "poor"
	QualityUnknown    Quality = "unknown"
)

// OutlierMethod selects an outlier detection procedure. A closed enumeration:
// every consumer switches exhaustively and rejects unknown values.
type OutlierMethod int

const (
	OutlierTukey OutlierMethod = iota // IQR fences, needs >= 4 observations
	OutlierMAD                        // median absolute deviation, needs >= 3
)

func (m OutlierMethod) String() string {
	switch m {
	case OutlierTukey:
		return "tukey"
	case OutlierMAD:
		return "mad"
	default:
		return fmt.Sprintf("outlier_method(%d)", int(m))
	}
}

// ConfidenceInterval is the derived confidence estimate for one aggregate,
// recomputed fresh on every call.
// INVARIANTS:
// - Lower <= Upper whenever both are finite
// - RCIW is a percentage of |mean|; NaN when the mean is unavailable
// - ResampleSize == 0 means sampling is sufficient (stop)
type ConfidenceInterval struct {
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
	Level        float64 `json:"level"` // percent
	RCIW         float64 `json:"rciw"`  // percent of |mean|
	SampleSize   int     `json:"sample_size"`
	Quality      Quality `json:"quality"`
	ResampleSize int     `json:"resample_size,omitempty"`
}

// Sufficient reports whether the adaptive stopping rule decided no further
// sampling is needed.
func (ci ConfidenceInterval) Sufficient() bool { return ci.ResampleSize == 0 }

// Comparison is one pairwise significance result.
// INVARIANT: PAdjusted >= PValue always.
type Comparison struct {
	A           string  `json:"a"` // benchmark names
	B           string  `json:"b"`
	IndexA      int     `json:"index_a"` // positions in the input group list
	IndexB      int     `json:"index_b"`
	TStatistic  float64 `json:"t_statistic"`
	DF          float64 `json:"df"`
	PValue      float64 `json:"p_value"`
	PAdjusted   float64 `json:"p_adjusted"`
	Significant bool    `json:"significant"`
}

// TwoSampleComparison is the head-to-head verdict for two aggregates.
type TwoSampleComparison struct {
	Speedup     float64 `json:"speedup"`    // meanA / meanB
	Difference  float64 `json:"difference"` // meanA - meanB, in ns
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// Cluster is one Scott-Knott ESD output cluster. IDs are 1-based in ascending
// order of cluster mean. MaxContrastWith is 0 when only one cluster exists.
type Cluster struct {
	ID              int      `json:"id"`
	Members         []string `json:"members"`        // benchmark names
	MemberIndexes   []int    `json:"member_indexes"` // positions in the input group list
	Mean            float64  `json:"mean"`
	Variance        float64  `json:"variance"`
	Count           int      `json:"count"`
	CohenD          float64  `json:"cohen_d"` // >= 0
	MaxContrastWith int      `json:"max_contrast_with,omitempty"`
}

// ANOVA holds a Welch's one-way ANOVA omnibus result.
type ANOVA struct {
	FStatistic float64 `json:"f_statistic"`
	DF1        float64 `json:"df1"`
	DF2        float64 `json:"df2"`
	PValue     float64 `json:"p_value"`
}

// Percentiles are the standard reporting percentiles of the timing
// distribution, in ns.
type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// MemoryStats describes allocation behavior across a run.
type MemoryStats struct {
	AllocationRate   float64 `json:"allocation_rate"` // KB per operation
	PeakKB           uint64  `json:"peak_kb"`
	GCImpact         float64 `json:"gc_impact"` // correlation between allocation and time
	MemoryEfficiency float64 `json:"memory_efficiency"`
}

// TrendStats describes drift of timings over arrival order.
type TrendStats struct {
	Slope       float64 `json:"slope"` // ns per iteration
	Correlation float64 `json:"correlation"`
	Stable      bool    `json:"stable"`
}

// Distribution is an equal-width histogram of the timing column together
// with shape statistics.
type Distribution struct {
	BinEdges    []float64 `json:"bin_edges"` // len == bins+1
	Frequencies []int     `json:"frequencies"`
	Skewness    float64   `json:"skewness"`
	Kurtosis    float64   `json:"kurtosis"`
}

// Summary is the full per-benchmark report handed to the reporting
// collaborator. Unavailable metrics are NaN (or zero counts); they never
// block the remaining fields.
type Summary struct {
	Name             string             `json:"name"`
	SampleCount      int                `json:"sample_count"`
	Mean             float64            `json:"mean"` // ns
	StdDev           float64            `json:"stddev"`
	Variance         float64            `json:"variance"`
	Min              float64            `json:"min"`
	Max              float64            `json:"max"`
	Percentiles      Percentiles        `json:"percentiles"`
	CV               float64            `json:"cv"`
	IQR              float64            `json:"iqr"`
	Throughput       float64            `json:"throughput"` // ops per second
	AllocatedKBPerOp float64            `json:"allocated_kb_per_op"`
	Interval         ConfidenceInterval `json:"confidence_interval"`
	OutlierCount     int                `json:"outlier_count"`
	OutlierPercent   float64            `json:"outlier_percent"`
	Quality          Quality            `json:"quality"`
	QualityScore     float64            `json:"quality_score"` // 0..100
}

// SuiteReport bundles per-benchmark summaries with the group comparison the
// facade selected by group count.
type SuiteReport struct {
	Summaries []Summary    `json:"summaries"`
	Pairwise  []Comparison `json:"pairwise,omitempty"` // 2-5 groups
	Clusters  []Cluster    `json:"clusters,omitempty"` // 6+ groups
}
