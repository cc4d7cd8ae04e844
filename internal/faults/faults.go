// Package faults defines the detection engine's error taxonomy and the
// wrapping helper components use to tag failures for run-summary accounting.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid engine configuration. Fatal: a run never
	// starts with a configuration error.
	ErrConfiguration = errors.New("configuration error")
	// ErrData marks a record with missing or malformed fields. Recoverable:
	// the affected signal degrades to zero and the record keeps processing.
	ErrData = errors.New("data error")
	// ErrComputation marks a violated internal invariant, such as a signal
	// outside [0,1]. The affected pair is skipped and counted.
	ErrComputation = errors.New("computation error")
)

// Category is the run-summary bucket for a classified error.
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryData          Category = "data"
	CategoryComputation   Category = "computation"
	CategoryUnknown       Category = "unknown"
)

// Classify maps an error onto its summary category via the sentinel markers.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrConfiguration):
		return CategoryConfiguration
	case errors.Is(err, ErrData):
		return CategoryData
	case errors.Is(err, ErrComputation):
		return CategoryComputation
	default:
		return CategoryUnknown
	}
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrComputation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
