// Package normalize canonicalizes entity names and identifiers for
// comparison.
//
// The resolver and the contract index both key on the output of this package,
// so a lookup built from one record and a comparison made against another can
// never diverge. Normalize is pure and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
package normalize
