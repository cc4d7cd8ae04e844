package scoring

import (
	"fmt"
	"math"

	"transition/internal/faults"
	"transition/internal/signals"
)

// weightSumTolerance absorbs floating error when validating that weights sum
// to one.
const weightSumTolerance = 1e-9

// Confidence is the discrete band derived from a likelihood score.
type Confidence string

const (
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceLikely   Confidence = "LIKELY"
	ConfidencePossible Confidence = "POSSIBLE"
)

// Weights assigns one non-negative weight to each of the six signals. A valid
// vector covers exactly the fixed signal set and sums to 1.0.
type Weights map[signals.Name]float64

// Validate checks coverage, non-negativity, and unit sum.
func (w Weights) Validate() error {
	names := signals.Names()
	if len(w) != len(names) {
		return faults.Wrap(faults.ErrConfiguration, "scoring", "weights",
			fmt.Sprintf("expected %d signal weights, got %d", len(names), len(w)), nil)
	}
	sum := 0.0
	for _, name := range names {
		value, ok := w[name]
		if !ok {
			return faults.Wrap(faults.ErrConfiguration, "scoring", "weights",
				fmt.Sprintf("missing weight for signal %q", name), nil)
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return faults.Wrap(faults.ErrConfiguration, "scoring", "weights",
				fmt.Sprintf("weight for %q must be a non-negative finite number, got %v", name, value), nil)
		}
		sum += value
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return faults.Wrap(faults.ErrConfiguration, "scoring", "weights",
			fmt.Sprintf("weights must sum to 1.0, got %v", sum), nil)
	}
	return nil
}

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for name, value := range w {
		out[name] = value
	}
	return out
}

// Thresholds are the two ordered band boundaries.
type Thresholds struct {
	High   float64
	Likely float64
}

// Validate checks range and ordering: 0 <= Likely <= High <= 1.
func (t Thresholds) Validate() error {
	if t.High < 0 || t.High > 1 || t.Likely < 0 || t.Likely > 1 {
		return faults.Wrap(faults.ErrConfiguration, "scoring", "thresholds",
			fmt.Sprintf("thresholds must lie in [0,1], got high=%v likely=%v", t.High, t.Likely), nil)
	}
	if t.High < t.Likely {
		return faults.Wrap(faults.ErrConfiguration, "scoring", "thresholds",
			fmt.Sprintf("high threshold %v must not be below likely threshold %v", t.High, t.Likely), nil)
	}
	return nil
}

// Scorer computes composite likelihood scores under one immutable weight and
// threshold configuration. Safe for concurrent use.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// NewScorer validates the configuration and fails fast with a configuration
// error before any batch work can begin.
func NewScorer(weights Weights, thresholds Thresholds) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights.clone(), thresholds: thresholds}, nil
}

// Score returns the weighted sum of the signal vector, clamped to [0,1] to
// absorb floating error. Signals absent from the vector contribute zero.
func (s *Scorer) Score(vector signals.Vector) float64 {
	sum := 0.0
	for _, name := range signals.Names() {
		sum += s.weights[name] * vector[name]
	}
	return clamp01(sum)
}

// Classify maps a score onto its confidence band.
func (s *Scorer) Classify(score float64) Confidence {
	switch {
	case score >= s.thresholds.High:
		return ConfidenceHigh
	case score >= s.thresholds.Likely:
		return ConfidenceLikely
	default:
		return ConfidencePossible
	}
}

// Weights returns a copy of the scorer's weight vector.
func (s *Scorer) Weights() Weights { return s.weights.clone() }

// Thresholds returns the scorer's band boundaries.
func (s *Scorer) Thresholds() Thresholds { return s.thresholds }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
