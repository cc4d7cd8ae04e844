package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeInputs(); err != nil {
		return err
	}
	c.normalizeScoring()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInputs() error {
	var err error
	if c.Inputs.AwardsFile, err = expandPath(c.Inputs.AwardsFile); err != nil {
		return fmt.Errorf("inputs.awards_file: %w", err)
	}
	if c.Inputs.ContractsFile, err = expandPath(c.Inputs.ContractsFile); err != nil {
		return fmt.Errorf("inputs.contracts_file: %w", err)
	}
	if c.Inputs.PatentsFile, err = expandPath(c.Inputs.PatentsFile); err != nil {
		return fmt.Errorf("inputs.patents_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeScoring() {
	c.Scoring.Preset = strings.ToLower(strings.TrimSpace(c.Scoring.Preset))
	if c.Scoring.Preset == "" {
		c.Scoring.Preset = defaultPreset
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
