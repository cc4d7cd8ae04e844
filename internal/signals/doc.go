// Package signals implements the six transition signals as pure functions
// over an award/contract pair.
//
// The signal set is closed: six named extractors in a fixed order, each
// producing a value in [0,1]. A missing or malformed input degrades the
// affected signal to zero with a data-tagged error so the run summary can
// count the occurrence; extraction never aborts the pair.
package signals
