package match

import (
	"sort"

	"transition/internal/normalize"
	"transition/internal/records"
)

// Resolver links award recipients to contract vendors through the exact
// identifier cascade and fuzzy name matching. A Resolver is stateless beyond
// its read-only index and is safe for concurrent use.
type Resolver struct {
	index      *Index
	fuzzyFloor float64

	steps []func(records.Award) (VendorMatch, bool)
}

// NewResolver builds a resolver over the given index. fuzzyFloor is the
// minimum similarity accepted by the name-matching step; values outside (0,1]
// fall back to DefaultFuzzyFloor.
func NewResolver(index *Index, fuzzyFloor float64) *Resolver {
	if fuzzyFloor <= 0 || fuzzyFloor > 1 {
		fuzzyFloor = DefaultFuzzyFloor
	}
	r := &Resolver{index: index, fuzzyFloor: fuzzyFloor}
	r.steps = []func(records.Award) (VendorMatch, bool){
		r.matchUEI,
		r.matchCAGE,
		r.matchDUNS,
		r.matchFuzzy,
	}
	return r
}

// Resolve returns the best vendor match for the award, or false when no
// cascade step succeeds. Steps short-circuit: a pair that matches at an
// earlier step is never reported with a later, weaker method.
func (r *Resolver) Resolve(award records.Award) (VendorMatch, bool) {
	for _, step := range r.steps {
		if m, ok := step(award); ok {
			return m, true
		}
	}
	return VendorMatch{}, false
}

// Candidates returns the award's candidate contracts: every contract sharing
// an exact identifier or a name block with the recipient, in deterministic
// contract-id order.
func (r *Resolver) Candidates(award records.Award) []*records.Contract {
	seen := make(map[*entry]struct{})
	var entries []*entry
	collect := func(batch []*entry) {
		for _, e := range batch {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			entries = append(entries, e)
		}
	}
	if award.Recipient.UEI != "" {
		collect(r.index.lookupUEI(award.Recipient.UEI))
	}
	if award.Recipient.CAGE != "" {
		collect(r.index.lookupCAGE(award.Recipient.CAGE))
	}
	if award.Recipient.DUNS != "" {
		collect(r.index.lookupDUNS(award.Recipient.DUNS))
	}
	collect(r.index.fuzzyCandidates(award.RecipientName))

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].contract.ContractID < entries[j].contract.ContractID
	})
	out := make([]*records.Contract, len(entries))
	for i, e := range entries {
		out[i] = e.contract
	}
	return out
}

// MatchPair runs the cascade against a single award/contract pair. Used when
// the orchestrator has already selected a candidate and needs the pair's
// method and confidence for the vendor signal.
func (r *Resolver) MatchPair(award records.Award, contract *records.Contract) (VendorMatch, bool) {
	if contract == nil {
		return VendorMatch{}, false
	}
	if idsEqual(award.Recipient.UEI, contract.Vendor.UEI) {
		return pairMatch(award, contract, MethodUEIExact, ConfidenceUEI), true
	}
	if idsEqual(award.Recipient.CAGE, contract.Vendor.CAGE) {
		return pairMatch(award, contract, MethodCAGEExact, ConfidenceCAGE), true
	}
	if idsEqual(award.Recipient.DUNS, contract.Vendor.DUNS) {
		return pairMatch(award, contract, MethodDUNSExact, ConfidenceDUNS), true
	}
	sim := similarity(normalize.Tokens(award.RecipientName), normalize.Tokens(contract.VendorName))
	if sim < r.fuzzyFloor {
		return VendorMatch{}, false
	}
	if sim > FuzzyConfidenceCap {
		sim = FuzzyConfidenceCap
	}
	return pairMatch(award, contract, MethodFuzzyName, sim), true
}

func (r *Resolver) matchUEI(award records.Award) (VendorMatch, bool) {
	return exactStep(award, award.Recipient.UEI, r.index.lookupUEI, MethodUEIExact, ConfidenceUEI)
}

func (r *Resolver) matchCAGE(award records.Award) (VendorMatch, bool) {
	return exactStep(award, award.Recipient.CAGE, r.index.lookupCAGE, MethodCAGEExact, ConfidenceCAGE)
}

func (r *Resolver) matchDUNS(award records.Award) (VendorMatch, bool) {
	return exactStep(award, award.Recipient.DUNS, r.index.lookupDUNS, MethodDUNSExact, ConfidenceDUNS)
}

func (r *Resolver) matchFuzzy(award records.Award) (VendorMatch, bool) {
	awardTokens := normalize.Tokens(award.RecipientName)
	if len(awardTokens) == 0 {
		return VendorMatch{}, false
	}
	var (
		best     *entry
		bestConf float64
	)
	for _, e := range r.index.fuzzyCandidates(award.RecipientName) {
		if len(e.tokens) == 0 {
			continue
		}
		sim := similarity(awardTokens, e.tokens)
		if sim < r.fuzzyFloor {
			continue
		}
		if sim > FuzzyConfidenceCap {
			sim = FuzzyConfidenceCap
		}
		switch {
		case best == nil, sim > bestConf:
			best, bestConf = e, sim
		case sim == bestConf && preferEntry(e, best):
			best = e
		}
	}
	if best == nil {
		return VendorMatch{}, false
	}
	return pairMatch(award, best.contract, MethodFuzzyName, bestConf), true
}

// exactStep skips silently when the award side of the identifier is absent:
// a missing field is not a match attempt.
func exactStep(award records.Award, rawID string, lookup func(string) []*entry, method Method, confidence float64) (VendorMatch, bool) {
	if normalize.Identifier(rawID) == "" {
		return VendorMatch{}, false
	}
	entries := lookup(rawID)
	if len(entries) == 0 {
		return VendorMatch{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if preferEntry(e, best) {
			best = e
		}
	}
	return pairMatch(award, best.contract, method, confidence), true
}

// preferEntry is the deterministic tie-break within a cascade step: most
// recent action date first, then lexicographically smaller contract id.
func preferEntry(a, b *entry) bool {
	if !a.contract.ActionDate.Equal(b.contract.ActionDate) {
		return a.contract.ActionDate.After(b.contract.ActionDate)
	}
	return a.contract.ContractID < b.contract.ContractID
}

func pairMatch(award records.Award, contract *records.Contract, method Method, confidence float64) VendorMatch {
	return VendorMatch{
		AwardID:    award.AwardID,
		ContractID: contract.ContractID,
		Method:     method,
		Confidence: confidence,
	}
}

func idsEqual(a, b string) bool {
	na := normalize.Identifier(a)
	if na == "" {
		return false
	}
	return na == normalize.Identifier(b)
}
