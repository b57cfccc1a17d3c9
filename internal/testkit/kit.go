// Package testkit builds deterministic synthetic benchmark runs for tests.
// Every generator takes an explicit seed so fixtures reproduce exactly.
package testkit

import (
	"fmt"
	"math/rand"

	"gomeasure/domain/sample"
)

// GeneratorConfig configures a synthetic benchmark run.
type GeneratorConfig struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	BaseNS   uint64  `json:"base_ns"`
	JitterNS uint64  `json:"jitter_ns"` // uniform jitter in [0, JitterNS)
	DriftNS  float64 `json:"drift_ns"`  // per-iteration slope, may be negative; times bottom out at 0
	AllocKB  uint64  `json:"alloc_kb"`  // allocation per operation
	Seed     int64   `json:"seed"`
}

// DefaultGeneratorConfig returns a stable 30-sample run around 1ms.
func DefaultGeneratorConfig(name string) GeneratorConfig {
	return GeneratorConfig{
		Name:     name,
		Count:    30,
		BaseNS:   1_000_000,
		JitterNS: 10_000,
		Seed:     42,
	}
}

// Generate builds an aggregate from the config. The capacity leaves headroom
// above Count so adaptive-resampling tests can append further observations.
func Generate(cfg GeneratorConfig) (*sample.Aggregate, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("generator config: count must be positive, got %d", cfg.Count)
	}
	agg, err := sample.New(cfg.Count*2, sample.DefaultConfig(cfg.Name))
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	heapKB := uint64(4096)
	for i := 0; i < cfg.Count; i++ {
		t := cfg.BaseNS
		if cfg.JitterNS > 0 {
			t += uint64(rng.Int63n(int64(cfg.JitterNS)))
		}
		if cfg.DriftNS != 0 {
			// Signed arithmetic so a negative drift (speedup as caches warm)
			// cannot underflow the unsigned timing; it bottoms out at zero.
			drifted := float64(t) + cfg.DriftNS*float64(i)
			if drifted < 0 {
				drifted = 0
			}
			t = uint64(drifted)
		}
		before := heapKB
		after := before + cfg.AllocKB
		heapKB = after
		if err := agg.Append(t, before, after); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

// FromTimes builds an aggregate holding exactly the given timings, in order.
// Fails the calling test on error so fixtures stay one-liners.
func FromTimes(tb testingTB, name string, times []uint64) *sample.Aggregate {
	tb.Helper()
	agg, err := sample.New(len(times)+1, sample.DefaultConfig(name))
	if err != nil {
		tb.Fatalf("new aggregate: %v", err)
	}
	for _, t := range times {
		if err := agg.Append(t, 0, 0); err != nil {
			tb.Fatalf("append: %v", err)
		}
	}
	return agg
}

// Constant builds an aggregate of n identical timings.
func Constant(tb testingTB, name string, n int, valueNS uint64) *sample.Aggregate {
	tb.Helper()
	times := make([]uint64, n)
	for i := range times {
		times[i] = valueNS
	}
	return FromTimes(tb, name, times)
}

// testingTB is the slice of testing.TB the kit needs. Keeping it local avoids
// importing testing into non-test binaries that use the generators.
type testingTB interface {
	Helper()
	Fatalf(format string, args ...any)
}
