// Package config loads, normalizes, and validates engine configuration.
//
// Configuration is a TOML file with repository defaults for every field, so
// an empty file (or no file at all) yields a runnable engine. Weights,
// thresholds, and window parameters are plain values here; construction of
// validated scorers and orchestrators from them happens at the call site, so
// multiple configurations can coexist in one process.
package config
