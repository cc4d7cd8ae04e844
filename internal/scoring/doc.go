// Package scoring combines the six transition signals into a composite
// likelihood and a discrete confidence band.
//
// Weights and thresholds are validated once at scorer construction; a scorer
// that exists is a scorer that can be trusted. Classification is a plain
// ordered-threshold comparison, monotonic in the score by construction.
package scoring
