package sample

import (
	"math"

	"gomeasure/domain/core"
)

// Observation is a single per-iteration measurement.
type Observation struct {
	TimeNS      uint64 `json:"time_ns"`
	BeforeKB    uint64 `json:"before_kb"`
	AfterKB     uint64 `json:"after_kb"`
	AllocatedKB uint64 `json:"allocated_kb"`
}

// Aggregate is the append-only container of observations for one benchmark.
//
// It follows a strict two-phase ownership discipline: the runner exclusively
// appends during the sampling phase, then treats the aggregate as immutable
// during analysis. Statistics functions borrow read-only views and never
// mutate it, so no locking is required across the phase boundary.
//
// Running sum/min/max and the Welford mean/M2 moments are maintained on every
// append so the runner can query cheap statistics mid-loop; the rigorous
// analysis-phase versions (overflow-checked mean, Kahan variance) live in
// internal/descriptive.
type Aggregate struct {
	cfg      Config
	capacity int
	data     []Observation

	sum            uint64
	min            uint64
	max            uint64
	mean           float64
	m2             float64
	sumAllocatedKB uint64
}

// New creates an empty aggregate with a fixed capacity.
func New(capacity int, cfg Config) (*Aggregate, error) {
	if capacity <= 0 {
		return nil, core.ErrInvalidCapacity
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregate{
		cfg:      cfg,
		capacity: capacity,
		data:     make([]Observation, 0, capacity),
		min:      math.MaxUint64,
	}, nil
}

// Append records one observation in arrival order. AllocatedKB is derived as
// max(afterKB-beforeKB, 0). Returns ErrCapacityExhausted once count reaches
// the fixed capacity.
func (a *Aggregate) Append(timeNS, beforeKB, afterKB uint64) error {
	if len(a.data) >= a.capacity {
		return core.ErrCapacityExhausted
	}

	obs := Observation{TimeNS: timeNS, BeforeKB: beforeKB, AfterKB: afterKB}
	if afterKB > beforeKB {
		obs.AllocatedKB = afterKB - beforeKB
	}
	a.data = append(a.data, obs)

	a.sum += timeNS
	a.sumAllocatedKB += obs.AllocatedKB
	if timeNS < a.min {
		a.min = timeNS
	}
	if timeNS > a.max {
		a.max = timeNS
	}

	// Welford's method keeps the running mean and M2 numerically stable.
	n := float64(len(a.data))
	if len(a.data) == 1 {
		a.mean = float64(timeNS)
		a.m2 = 0
		return nil
	}
	delta := float64(timeNS) - a.mean
	a.mean += delta / n
	a.m2 += delta * (float64(timeNS) - a.mean)
	return nil
}

// Count returns the number of recorded observations.
func (a *Aggregate) Count() int { return len(a.data) }

// Capacity returns the fixed capacity set at creation.
func (a *Aggregate) Capacity() int { return a.capacity }

// Config returns the immutable run configuration.
func (a *Aggregate) Config() Config { return a.cfg }

// Name returns the benchmark name.
func (a *Aggregate) Name() string { return a.cfg.Name }

// ConfidenceLevel returns the configured confidence level in percent.
func (a *Aggregate) ConfidenceLevel() float64 { return a.cfg.ConfidenceLevel }

// TargetRCIW returns the configured target relative CI width in percent.
func (a *Aggregate) TargetRCIW() float64 { return a.cfg.TargetRCIW }

// GCStep returns the configured collector step size in KB.
func (a *Aggregate) GCStep() int { return a.cfg.GCStep }

// BaseKB returns the baseline memory usage recorded at run start.
func (a *Aggregate) BaseKB() uint64 { return a.cfg.BaseKB }

// At returns the i-th observation in arrival order.
func (a *Aggregate) At(i int) Observation { return a.data[i] }

// Observations returns a copy of all observations in arrival order.
func (a *Aggregate) Observations() []Observation {
	out := make([]Observation, len(a.data))
	copy(out, a.data)
	return out
}

// Times returns a copy of the timing column in arrival order.
func (a *Aggregate) Times() []uint64 {
	out := make([]uint64, len(a.data))
	for i, o := range a.data {
		out[i] = o.TimeNS
	}
	return out
}

// Sum returns the running sum of timings. The analysis-phase mean in
// internal/descriptive re-sums with overflow detection; this accessor can
// have wrapped if the run was extreme.
func (a *Aggregate) Sum() uint64 { return a.sum }

// SumAllocatedKB returns the running sum of per-operation allocations.
func (a *Aggregate) SumAllocatedKB() uint64 { return a.sumAllocatedKB }

// RunningMin returns the running minimum timing, or 0 for an empty aggregate.
func (a *Aggregate) RunningMin() uint64 {
	if len(a.data) == 0 {
		return 0
	}
	return a.min
}

// RunningMax returns the running maximum timing.
func (a *Aggregate) RunningMax() uint64 { return a.max }

// RunningMean returns the Welford running mean, or NaN for an empty aggregate.
func (a *Aggregate) RunningMean() float64 {
	if len(a.data) == 0 {
		return math.NaN()
	}
	return a.mean
}

// RunningVariance returns the Welford sample variance M2/(n-1): 0 for a
// single observation, NaN for an empty aggregate.
func (a *Aggregate) RunningVariance() float64 {
	switch {
	case len(a.data) == 0:
		return math.NaN()
	case len(a.data) == 1:
		return 0
	}
	return a.m2 / float64(len(a.data)-1)
}
