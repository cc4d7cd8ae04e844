package scoring

import (
	"fmt"
	"sort"

	"transition/internal/faults"
	"transition/internal/signals"
)

// Preset bundles a named weight/threshold configuration with the emission
// floor the orchestrator applies before a pair becomes a detection.
type Preset struct {
	Name          string
	Weights       Weights
	Thresholds    Thresholds
	EmissionFloor float64
}

const (
	PresetDefault        = "default"
	PresetHighPrecision  = "high-precision"
	PresetBroadDiscovery = "broad-discovery"
)

var presets = map[string]Preset{
	PresetDefault: {
		Name: PresetDefault,
		Weights: Weights{
			signals.NameAgencyContinuity: 0.25,
			signals.NameTimingProximity:  0.20,
			signals.NameCompetitionType:  0.20,
			signals.NamePatentSignal:     0.15,
			signals.NameCETAlignment:     0.10,
			signals.NameVendorMatch:      0.10,
		},
		Thresholds:    Thresholds{High: 0.85, Likely: 0.65},
		EmissionFloor: 0.40,
	},
	PresetHighPrecision: {
		Name: PresetHighPrecision,
		Weights: Weights{
			signals.NameAgencyContinuity: 0.30,
			signals.NameTimingProximity:  0.18,
			signals.NameCompetitionType:  0.17,
			signals.NamePatentSignal:     0.10,
			signals.NameCETAlignment:     0.05,
			signals.NameVendorMatch:      0.20,
		},
		Thresholds:    Thresholds{High: 0.90, Likely: 0.75},
		EmissionFloor: 0.50,
	},
	PresetBroadDiscovery: {
		Name: PresetBroadDiscovery,
		Weights: Weights{
			signals.NameAgencyContinuity: 0.18,
			signals.NameTimingProximity:  0.17,
			signals.NameCompetitionType:  0.15,
			signals.NamePatentSignal:     0.22,
			signals.NameCETAlignment:     0.18,
			signals.NameVendorMatch:      0.10,
		},
		Thresholds:    Thresholds{High: 0.80, Likely: 0.55},
		EmissionFloor: 0.30,
	},
}

// LookupPreset returns a named preset configuration. The empty name selects
// the default preset.
func LookupPreset(name string) (Preset, error) {
	if name == "" {
		name = PresetDefault
	}
	preset, ok := presets[name]
	if !ok {
		return Preset{}, faults.Wrap(faults.ErrConfiguration, "scoring", "preset",
			fmt.Sprintf("unknown preset %q (known: %v)", name, PresetNames()), nil)
	}
	out := preset
	out.Weights = preset.Weights.clone()
	return out, nil
}

// PresetNames lists the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
