package detect_test

import (
	"errors"
	"testing"

	"transition/internal/config"
	"transition/internal/detect"
	"transition/internal/faults"
	"transition/internal/scoring"
)

func TestOptionsFromConfigResolvesPreset(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.Preset = scoring.PresetHighPrecision

	opts, err := detect.OptionsFromConfig(&cfg, nil)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	preset, err := scoring.LookupPreset(scoring.PresetHighPrecision)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Scorer.Thresholds() != preset.Thresholds {
		t.Fatalf("thresholds = %+v, want preset %+v", opts.Scorer.Thresholds(), preset.Thresholds)
	}
	if opts.EmissionFloor != preset.EmissionFloor {
		t.Fatalf("emission floor = %v, want preset %v", opts.EmissionFloor, preset.EmissionFloor)
	}
	if _, err := detect.New(opts); err != nil {
		t.Fatalf("resolved options should construct: %v", err)
	}
}

func TestOptionsFromConfigExplicitOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.ThresholdHigh = 0.9
	cfg.Scoring.EmissionFloor = 0.25

	opts, err := detect.OptionsFromConfig(&cfg, nil)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if got := opts.Scorer.Thresholds().High; got != 0.9 {
		t.Fatalf("high threshold = %v, want override 0.9", got)
	}
	if got := opts.Scorer.Thresholds().Likely; got != 0.65 {
		t.Fatalf("likely threshold = %v, want preset 0.65", got)
	}
	if opts.EmissionFloor != 0.25 {
		t.Fatalf("emission floor = %v, want 0.25", opts.EmissionFloor)
	}
}

func TestOptionsFromConfigRejectsBadWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.Weights = map[string]float64{"vendor_match": 1.0}

	_, err := detect.OptionsFromConfig(&cfg, nil)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error for incomplete weights, got %v", err)
	}
}

func TestOptionsFromConfigUnknownPreset(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.Preset = "experimental"
	if _, err := detect.OptionsFromConfig(&cfg, nil); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
