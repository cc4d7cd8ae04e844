package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. It checks structural
// soundness only; the scorer re-validates weights at construction and
// remains the authority on configuration errors at run start.
func (c *Config) Validate() error {
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validatePatent(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	if s.ThresholdHigh < 0 || s.ThresholdHigh > 1 {
		return errors.New("scoring.threshold_high must be between 0 and 1")
	}
	if s.ThresholdLikely < 0 || s.ThresholdLikely > 1 {
		return errors.New("scoring.threshold_likely must be between 0 and 1")
	}
	// Zero thresholds defer to the preset; only check ordering when both
	// are explicit.
	if s.ThresholdHigh > 0 && s.ThresholdLikely > 0 && s.ThresholdHigh < s.ThresholdLikely {
		return errors.New("scoring.threshold_high must not be below scoring.threshold_likely")
	}
	if s.EmissionFloor < 0 || s.EmissionFloor > 1 {
		return errors.New("scoring.emission_floor must be between 0 and 1")
	}
	for name, weight := range s.Weights {
		if weight < 0 {
			return fmt.Errorf("scoring.weights.%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyFloor <= 0 || c.Matching.FuzzyFloor > 1 {
		return errors.New("matching.fuzzy_floor must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateTiming() error {
	t := c.Timing
	if t.GraceDays < 0 {
		return errors.New("timing.grace_days must not be negative")
	}
	if t.FullCreditDays < 0 {
		return errors.New("timing.full_credit_days must not be negative")
	}
	if t.WindowDays <= t.FullCreditDays {
		return errors.New("timing.window_days must exceed timing.full_credit_days")
	}
	return nil
}

func (c *Config) validatePatent() error {
	p := c.Patent
	if p.LookbackDays <= 0 {
		return errors.New("patent.lookback_days must be positive")
	}
	if p.CountSaturation <= 0 {
		return errors.New("patent.count_saturation must be positive")
	}
	sum := p.CountWeight + p.OverlapWeight
	if p.CountWeight < 0 || p.OverlapWeight < 0 || sum < 0.999 || sum > 1.001 {
		return errors.New("patent.count_weight and patent.overlap_weight must be non-negative and sum to 1.0")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Workers < 0 {
		return errors.New("engine.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
