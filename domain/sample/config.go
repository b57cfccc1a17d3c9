package sample

import (
	"gomeasure/domain/core"
)

// Default measurement parameters.
const (
	DefaultConfidenceLevel = 95.0 // percent
	DefaultTargetRCIW      = 5.0  // percent
)

// Config holds the immutable run configuration attached to an Aggregate at
// creation time. There is no ambient registry: every statistics function
// receives the aggregate (and therefore the config) explicitly.
type Config struct {
	Name            string  `json:"name"`
	ConfidenceLevel float64 `json:"confidence_level"` // percent, (0, 100]
	TargetRCIW      float64 `json:"target_rciw"`      // percent, (0, 100]
	GCStep          int     `json:"gc_step"`          // collector step in KB, 0 for full GC per sample
	BaseKB          uint64  `json:"base_kb"`          // memory usage at start, after initial GC
}

// DefaultConfig returns a Config with the standard 95% confidence level and
// 5% target relative confidence interval width.
func DefaultConfig(name string) Config {
	return Config{
		Name:            name,
		ConfidenceLevel: DefaultConfidenceLevel,
		TargetRCIW:      DefaultTargetRCIW,
	}
}

// Validate checks the config domain constraints.
func (c Config) Validate() error {
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel > 100 {
		return core.NewValidationError("confidence_level", "must be in (0, 100]")
	}
	if c.TargetRCIW <= 0 || c.TargetRCIW > 100 {
		return core.NewValidationError("target_rciw", "must be in (0, 100]")
	}
	return nil
}
