package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Contract violations: caller bugs, raised immediately, never
	// recoverable inside the analysis pipeline.
	ErrContractViolation = errors.New("contract violation")
	ErrInvalidPercentile = fmt.Errorf("%w: percentile out of [0,100]", ErrContractViolation)
	ErrInvalidCapacity   = fmt.Errorf("%w: capacity must be > 0", ErrContractViolation)
	ErrInvalidConfig     = fmt.Errorf("%w: invalid sample config", ErrContractViolation)
	ErrUnknownMethod     = fmt.Errorf("%w: unknown method", ErrContractViolation)

	// Expected statistical edge cases: recoverable by the caller
	// (skip the analysis or gather more samples).
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrCapacityExhausted = errors.New("sample capacity exhausted")

	// Mathematically undefined outputs (zero variance, zero MAD, numeric
	// overflow). Propagated without aborting downstream computation.
	ErrDegenerateStatistics = errors.New("degenerate statistics")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: validation failed for %s: %s", ErrContractViolation, field, reason)
}

func NewInsufficientDataError(what string, got, need int) error {
	return fmt.Errorf("%w: %s requires at least %d observations, got %d", ErrInsufficientData, what, need, got)
}

func NewGroupCountError(what string, got int) error {
	return fmt.Errorf("%w: %s requires at least 2 groups, got %d", ErrInsufficientData, what, got)
}

// Error checking helpers
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateStatistics(err error) bool {
	return errors.Is(err, ErrDegenerateStatistics)
}
