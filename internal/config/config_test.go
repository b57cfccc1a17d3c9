package config

import (
	"testing"

	"gomeasure/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.Alpha != 0.05 {
		t.Errorf("alpha: got %v, want 0.05", cfg.Analysis.Alpha)
	}
	if cfg.Analysis.ConfidenceLevel != 95 {
		t.Errorf("confidence level: got %v, want 95", cfg.Analysis.ConfidenceLevel)
	}
	if cfg.Profiling.HistogramBins != 10 {
		t.Errorf("bins: got %d, want 10", cfg.Profiling.HistogramBins)
	}
	if !cfg.Profiling.TrendEnabled {
		t.Error("trend should default to enabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALPHA", "0.01")
	t.Setenv("TARGET_RCIW", "2.5")
	t.Setenv("HISTOGRAM_BINS", "20")
	t.Setenv("TREND_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Analysis.Alpha != 0.01 {
		t.Errorf("alpha: got %v, want 0.01", cfg.Analysis.Alpha)
	}
	if cfg.Analysis.TargetRCIW != 2.5 {
		t.Errorf("target rciw: got %v, want 2.5", cfg.Analysis.TargetRCIW)
	}
	if cfg.Profiling.HistogramBins != 20 {
		t.Errorf("bins: got %d, want 20", cfg.Profiling.HistogramBins)
	}
	if cfg.Profiling.TrendEnabled {
		t.Error("trend should be disabled")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ALPHA":            "1.5",
		"CONFIDENCE_LEVEL": "0",
		"TARGET_RCIW":      "-3",
		"HISTOGRAM_BINS":   "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should be rejected", key, value)
			}
		})
	}

	t.Run("not_a_number", func(t *testing.T) {
		t.Setenv("ALPHA", "high")
		_, err := Load()
		if err == nil {
			t.Fatal("non-numeric ALPHA should be rejected")
		}
		if errors.GetCode(err) != errors.CodeConfigInvalid {
			t.Errorf("code: got %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
		}
	})
}

func TestSampleConfig(t *testing.T) {
	t.Setenv("CONFIDENCE_LEVEL", "99")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	sc := cfg.SampleConfig("lookup")
	if sc.Name != "lookup" {
		t.Errorf("name: got %q", sc.Name)
	}
	if sc.ConfidenceLevel != 99 {
		t.Errorf("confidence level: got %v, want 99", sc.ConfidenceLevel)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("built config should validate: %v", err)
	}
}
