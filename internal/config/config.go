package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "TRANSITION_CONFIG"

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the detection database and the run lock.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Inputs names the default record files consumed by a detection run. Each is
// a JSON-Lines file; command-line flags may override any of them.
type Inputs struct {
	AwardsFile    string `toml:"awards_file"`
	ContractsFile string `toml:"contracts_file"`
	PatentsFile   string `toml:"patents_file"`
}

// Scoring selects the weight/threshold configuration. Preset picks a named
// baseline; any explicit weight or threshold below overrides the preset
// value, a zero threshold or floor means "use the preset's". Weights are
// keyed by signal name and must cover all six signals when set at all.
type Scoring struct {
	Preset          string             `toml:"preset"`
	Weights         map[string]float64 `toml:"weights"`
	ThresholdHigh   float64            `toml:"threshold_high"`
	ThresholdLikely float64            `toml:"threshold_likely"`
	EmissionFloor   float64            `toml:"emission_floor"`
}

// Matching configures the vendor resolver.
type Matching struct {
	// FuzzyFloor is the minimum name similarity accepted as a match.
	FuzzyFloor float64 `toml:"fuzzy_floor"`
}

// Timing configures the timing-proximity signal, in days.
type Timing struct {
	GraceDays      int `toml:"grace_days"`
	FullCreditDays int `toml:"full_credit_days"`
	WindowDays     int `toml:"window_days"`
}

// Patent configures the patent signal.
type Patent struct {
	LookbackDays    int     `toml:"lookback_days"`
	CountSaturation int     `toml:"count_saturation"`
	CountWeight     float64 `toml:"count_weight"`
	OverlapWeight   float64 `toml:"overlap_weight"`
}

// Engine contains batch execution settings.
type Engine struct {
	// Workers bounds the parallel map over awards; zero uses every CPU.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the detection engine.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Inputs   Inputs   `toml:"inputs"`
	Scoring  Scoring  `toml:"scoring"`
	Matching Matching `toml:"matching"`
	Timing   Timing   `toml:"timing"`
	Patent   Patent   `toml:"patent"`
	Engine   Engine   `toml:"engine"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/transition/config.toml")
}

// SampleConfig returns the annotated sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration document to the given path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, normalizes, and validates a configuration file. The
// boolean reports whether a file was found at the resolved path; absence is
// not an error, the defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// EnsureDirectories creates the data and log directories if necessary.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
