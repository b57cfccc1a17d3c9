// Package config loads the analysis configuration from environment
// variables. The CLI entry point loads a .env file first, so local overrides
// work without exporting anything.
package config

import (
	"os"
	"strconv"

	"gomeasure/domain/sample"
	"gomeasure/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// AnalysisConfig holds the statistical knobs shared by every run.
type AnalysisConfig struct {
	Alpha           float64 // significance level for group comparisons
	ConfidenceLevel float64 // percent, for per-run intervals
	TargetRCIW      float64 // percent, drives the adaptive stopping rule
}

// ProfilingConfig holds the secondary-analysis settings.
type ProfilingConfig struct {
	HistogramBins int
	TrendEnabled  bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			Alpha:           0.05,
			ConfidenceLevel: sample.DefaultConfidenceLevel,
			TargetRCIW:      sample.DefaultTargetRCIW,
		},
		Profiling: ProfilingConfig{
			HistogramBins: 10,
			TrendEnabled:  true,
		},
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	var err error
	if cfg.Analysis.Alpha, err = getEnvFloat("ALPHA", cfg.Analysis.Alpha); err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	if cfg.Analysis.ConfidenceLevel, err = getEnvFloat("CONFIDENCE_LEVEL", cfg.Analysis.ConfidenceLevel); err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	if cfg.Analysis.TargetRCIW, err = getEnvFloat("TARGET_RCIW", cfg.Analysis.TargetRCIW); err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	if cfg.Profiling.HistogramBins, err = getEnvInt("HISTOGRAM_BINS", cfg.Profiling.HistogramBins); err != nil {
		return nil, errors.Wrap(err, "failed to load profiling configuration")
	}
	cfg.Profiling.TrendEnabled = getEnv("TREND_ENABLED", "true") != "false"

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if cfg.Analysis.ConfidenceLevel <= 0 || cfg.Analysis.ConfidenceLevel > 100 {
		return errors.ConfigInvalid("CONFIDENCE_LEVEL must be in (0, 100]")
	}
	if cfg.Analysis.TargetRCIW <= 0 || cfg.Analysis.TargetRCIW > 100 {
		return errors.ConfigInvalid("TARGET_RCIW must be in (0, 100]")
	}
	if cfg.Profiling.HistogramBins <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	return nil
}

// SampleConfig builds the per-run sample configuration for a benchmark name.
func (c *Config) SampleConfig(name string) sample.Config {
	sc := sample.DefaultConfig(name)
	sc.ConfidenceLevel = c.Analysis.ConfidenceLevel
	sc.TargetRCIW = c.Analysis.TargetRCIW
	return sc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not a number: " + v)
	}
	return parsed, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not an integer: " + v)
	}
	return parsed, nil
}
