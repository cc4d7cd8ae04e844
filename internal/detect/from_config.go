package detect

import (
	"log/slog"

	"transition/internal/config"
	"transition/internal/faults"
	"transition/internal/scoring"
	"transition/internal/signals"
)

// OptionsFromConfig resolves a configuration into orchestrator options:
// preset lookup, explicit weight/threshold overrides, and side parameters.
// The returned options still pass through New, which owns final validation.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) (Options, error) {
	preset, err := scoring.LookupPreset(cfg.Scoring.Preset)
	if err != nil {
		return Options{}, err
	}

	weights := preset.Weights
	if len(cfg.Scoring.Weights) > 0 {
		weights = make(scoring.Weights, len(cfg.Scoring.Weights))
		for name, value := range cfg.Scoring.Weights {
			weights[signals.Name(name)] = value
		}
	}

	thresholds := preset.Thresholds
	if cfg.Scoring.ThresholdHigh > 0 {
		thresholds.High = cfg.Scoring.ThresholdHigh
	}
	if cfg.Scoring.ThresholdLikely > 0 {
		thresholds.Likely = cfg.Scoring.ThresholdLikely
	}
	floor := preset.EmissionFloor
	if cfg.Scoring.EmissionFloor > 0 {
		floor = cfg.Scoring.EmissionFloor
	}

	scorer, err := scoring.NewScorer(weights, thresholds)
	if err != nil {
		return Options{}, err
	}

	agencies, err := signals.DefaultAgencyTable()
	if err != nil {
		return Options{}, faults.Wrap(faults.ErrConfiguration, "detect", "config", "load agency table", err)
	}

	return Options{
		Scorer:        scorer,
		EmissionFloor: floor,
		FuzzyFloor:    cfg.Matching.FuzzyFloor,
		Timing: signals.TimingParams{
			GraceDays:      cfg.Timing.GraceDays,
			FullCreditDays: cfg.Timing.FullCreditDays,
			WindowDays:     cfg.Timing.WindowDays,
		},
		Patent: signals.PatentParams{
			LookbackDays:    cfg.Patent.LookbackDays,
			CountSaturation: cfg.Patent.CountSaturation,
			CountWeight:     cfg.Patent.CountWeight,
			OverlapWeight:   cfg.Patent.OverlapWeight,
		},
		Agencies: agencies,
		Workers:  cfg.Engine.Workers,
		Logger:   logger,
		Preset:   cfg.Scoring.Preset,
	}, nil
}
