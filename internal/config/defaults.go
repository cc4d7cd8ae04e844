package config

const (
	defaultDataDir = "~/.local/share/transition"
	defaultLogDir  = "~/.local/share/transition/logs"

	defaultPreset = "default"

	defaultFuzzyFloor = 0.65

	defaultTimingGraceDays      = 30
	defaultTimingFullCreditDays = 90
	defaultTimingWindowDays     = 730

	defaultPatentLookbackDays    = 1825
	defaultPatentCountSaturation = 2
	defaultPatentCountWeight     = 0.6
	defaultPatentOverlapWeight   = 0.4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scoring: Scoring{
			Preset: defaultPreset,
		},
		Matching: Matching{
			FuzzyFloor: defaultFuzzyFloor,
		},
		Timing: Timing{
			GraceDays:      defaultTimingGraceDays,
			FullCreditDays: defaultTimingFullCreditDays,
			WindowDays:     defaultTimingWindowDays,
		},
		Patent: Patent{
			LookbackDays:    defaultPatentLookbackDays,
			CountSaturation: defaultPatentCountSaturation,
			CountWeight:     defaultPatentCountWeight,
			OverlapWeight:   defaultPatentOverlapWeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
