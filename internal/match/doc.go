// Package match resolves an award's recipient to candidate contract vendors.
//
// Resolution runs a short-circuit cascade of stateless matchers: exact UEI,
// exact CAGE, exact DUNS, then token-based fuzzy name matching against a
// blocked candidate set. The contract index is built once per run and is
// read-only afterwards, so resolvers can share it across workers without
// locking.
package match
