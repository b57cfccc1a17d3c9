package profiling

import (
	"math"

	"gomeasure/domain/core"
	"gomeasure/domain/sample"
	domstats "gomeasure/domain/stats"
	"gomeasure/internal/descriptive"
)

// Memory summarizes the allocation behavior recorded alongside the timings.
// Allocation rate is KB allocated per operation, peak is the highest heap
// size seen after any operation, and GC impact is the correlation between
// per-operation allocation and timing. Efficiency is the reciprocal of the
// allocation rate so that leaner runs score higher.
func Memory(a *sample.Aggregate) (domstats.MemoryStats, error) {
	n := a.Count()
	if n == 0 {
		return domstats.MemoryStats{}, core.NewInsufficientDataError("memory profile", 0, 1)
	}

	stats := domstats.MemoryStats{
		AllocationRate: float64(a.SumAllocatedKB()) / float64(n),
	}
	for i := 0; i < n; i++ {
		if after := a.At(i).AfterKB; after > stats.PeakKB {
			stats.PeakKB = after
		}
	}

	stats.GCImpact = allocTimeCorrelation(a)

	if stats.AllocationRate > descriptive.Epsilon {
		stats.MemoryEfficiency = 1.0 / stats.AllocationRate
	} else {
		stats.MemoryEfficiency = math.Inf(1)
	}
	return stats, nil
}

// allocTimeCorrelation is the Pearson correlation between per-operation
// allocation and timing. A value near 1 suggests allocation pressure is
// what the timings are measuring.
func allocTimeCorrelation(a *sample.Aggregate) float64 {
	n := a.Count()
	if n < 2 {
		return 0
	}

	var sumA, sumT float64
	for i := 0; i < n; i++ {
		obs := a.At(i)
		sumA += float64(obs.AllocatedKB)
		sumT += float64(obs.TimeNS)
	}
	meanA := sumA / float64(n)
	meanT := sumT / float64(n)

	var num, denA, denT float64
	for i := 0; i < n; i++ {
		obs := a.At(i)
		da := float64(obs.AllocatedKB) - meanA
		dt := float64(obs.TimeNS) - meanT
		num += da * dt
		denA += da * da
		denT += dt * dt
	}
	if denA <= 0 || denT <= 0 {
		return 0
	}
	return num / math.Sqrt(denA*denT)
}
