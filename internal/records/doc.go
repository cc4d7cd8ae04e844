// Package records defines the immutable award, contract, and patent value
// types consumed by the detection engine.
//
// Records arrive pre-validated from upstream extraction; this package only
// models their shape and the enumerations the engine needs (competition type,
// identifier triples). Nothing here mutates a record after construction.
package records
