package evidence

import (
	"fmt"
	"math"
	"time"

	"transition/internal/match"
	"transition/internal/records"
	"transition/internal/scoring"
	"transition/internal/signals"
)

// SumTolerance is the floating tolerance within which a bundle's weighted
// contributions must reproduce the reported likelihood score.
const SumTolerance = 1e-6

// Contribution is one signal's line in the bundle.
type Contribution struct {
	Signal       signals.Name `yaml:"signal" json:"signal"`
	Value        float64      `yaml:"value" json:"value"`
	Weight       float64      `yaml:"weight" json:"weight"`
	Contribution float64      `yaml:"contribution" json:"contribution"`
}

// Bundle is the full justification for one detection.
type Bundle struct {
	Contributions []Contribution `yaml:"contributions" json:"contributions"`
	Facts         []string       `yaml:"facts" json:"facts"`
	GeneratedAt   time.Time      `yaml:"generated_at" json:"generated_at"`
}

// Total returns the sum of weighted contributions.
func (b Bundle) Total() float64 {
	sum := 0.0
	for _, c := range b.Contributions {
		sum += c.Contribution
	}
	return sum
}

// Verify checks the bundle against the reported score.
func (b Bundle) Verify(score float64) error {
	if diff := math.Abs(b.Total() - score); diff > SumTolerance {
		return fmt.Errorf("evidence contributions sum to %v, score is %v (diff %v)", b.Total(), score, diff)
	}
	return nil
}

// Input carries everything the assembler may cite. Match is nil when vendor
// resolution found nothing for the pair.
type Input struct {
	Award       records.Award
	Contract    records.Contract
	Match       *match.VendorMatch
	Signals     signals.Vector
	Weights     scoring.Weights
	Score       float64
	GeneratedAt time.Time
}

// Assemble builds the bundle. Output depends only on the input value, so
// identical runs produce identical evidence.
func Assemble(in Input) Bundle {
	bundle := Bundle{
		Contributions: make([]Contribution, 0, len(signals.Names())),
		GeneratedAt:   in.GeneratedAt.UTC(),
	}
	for _, name := range signals.Names() {
		value := in.Signals[name]
		weight := in.Weights[name]
		bundle.Contributions = append(bundle.Contributions, Contribution{
			Signal:       name,
			Value:        value,
			Weight:       weight,
			Contribution: weight * value,
		})
	}
	bundle.Facts = supportingFacts(in)
	return bundle
}

func supportingFacts(in Input) []string {
	var facts []string

	switch agency := in.Signals[signals.NameAgencyContinuity]; {
	case agency >= 1.0:
		facts = append(facts, fmt.Sprintf("Same awarding agency (%s)", in.Award.Agency))
	case agency > 0:
		facts = append(facts, fmt.Sprintf("Related agencies (%s and %s)", in.Award.Agency, in.Contract.Agency))
	}

	if !in.Award.CompletionDate.IsZero() && !in.Contract.ActionDate.IsZero() {
		gap := int(in.Contract.ActionDate.Sub(in.Award.CompletionDate).Hours() / 24)
		if gap >= 0 {
			facts = append(facts, fmt.Sprintf("%d days after award completion", gap))
		} else {
			facts = append(facts, fmt.Sprintf("%d days before award completion", -gap))
		}
	}

	if in.Contract.Competition.Known() {
		facts = append(facts, fmt.Sprintf("Competition type: %s", in.Contract.Competition))
	}

	if patent := in.Signals[signals.NamePatentSignal]; patent > 0 {
		facts = append(facts, fmt.Sprintf("Recipient patent activity signal %.2f", patent))
	}

	if in.Signals[signals.NameCETAlignment] >= 1.0 && in.Award.TechnologyArea != "" {
		facts = append(facts, fmt.Sprintf("Technology areas aligned (%s)", in.Award.TechnologyArea))
	}

	if in.Match != nil {
		facts = append(facts, fmt.Sprintf("Matched vendor by %s, confidence %.2f",
			methodDescription(in.Match.Method), in.Match.Confidence))
	} else {
		facts = append(facts, "No vendor identity match")
	}

	return facts
}

func methodDescription(method match.Method) string {
	switch method {
	case match.MethodUEIExact:
		return "exact UEI"
	case match.MethodCAGEExact:
		return "exact CAGE"
	case match.MethodDUNSExact:
		return "exact DUNS"
	case match.MethodFuzzyName:
		return "name similarity"
	default:
		return string(method)
	}
}
