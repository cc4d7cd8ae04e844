// Package evidence builds the deterministic justification bundle attached to
// every emitted detection.
//
// A bundle records each signal's raw value and weighted contribution in the
// fixed signal order, plus short human-readable supporting facts. Evidence is
// purely explanatory output; nothing in this package feeds back into scoring.
package evidence
