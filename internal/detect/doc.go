// Package detect drives the batch detection pipeline: index build, per-award
// candidate resolution, signal extraction, scoring, evidence assembly, and
// emission.
//
// Awards are independent, so the run is a parallel map over a read-only
// contract index with a bounded worker pool. Each award's detections are
// produced atomically; cancelling a run between awards never yields a
// partially evaluated award.
package detect
