package match

import (
	"transition/internal/normalize"
	"transition/internal/records"
)

// blockPrefixLen is the number of leading runes of each name token used as a
// blocking key during fuzzy candidate retrieval.
const blockPrefixLen = 4

type entry struct {
	contract *records.Contract
	name     string
	tokens   []string
}

// Index is the per-run candidate lookup over the contract pool: hash maps on
// normalized exact identifiers plus a name-prefix blocking structure for the
// fuzzy step. Build it once, then treat it as read-only; concurrent readers
// need no locking.
type Index struct {
	byUEI  map[string][]*entry
	byCAGE map[string][]*entry
	byDUNS map[string][]*entry
	blocks map[string][]*entry

	indexed   int
	unindexed int
}

// NewIndex builds the candidate index. The contract slice must not be mutated
// for the lifetime of the index. Contracts with neither an identifier nor a
// usable name cannot be indexed and are counted instead of failing the build.
func NewIndex(contracts []records.Contract) *Index {
	idx := &Index{
		byUEI:  make(map[string][]*entry),
		byCAGE: make(map[string][]*entry),
		byDUNS: make(map[string][]*entry),
		blocks: make(map[string][]*entry),
	}
	for i := range contracts {
		contract := &contracts[i]
		name := normalize.Name(contract.VendorName)
		e := &entry{contract: contract, name: name}
		if name != "" {
			e.tokens = normalize.Tokens(contract.VendorName)
		}

		reachable := false
		if uei := normalize.Identifier(contract.Vendor.UEI); uei != "" {
			idx.byUEI[uei] = append(idx.byUEI[uei], e)
			reachable = true
		}
		if cage := normalize.Identifier(contract.Vendor.CAGE); cage != "" {
			idx.byCAGE[cage] = append(idx.byCAGE[cage], e)
			reachable = true
		}
		if duns := normalize.Identifier(contract.Vendor.DUNS); duns != "" {
			idx.byDUNS[duns] = append(idx.byDUNS[duns], e)
			reachable = true
		}
		for _, key := range blockKeys(e.tokens) {
			idx.blocks[key] = append(idx.blocks[key], e)
			reachable = true
		}

		if reachable {
			idx.indexed++
		} else {
			idx.unindexed++
		}
	}
	return idx
}

// Indexed returns the number of contracts reachable through at least one key.
func (idx *Index) Indexed() int { return idx.indexed }

// Unindexed returns the number of contracts with no identifiers and no name.
func (idx *Index) Unindexed() int { return idx.unindexed }

func (idx *Index) lookupUEI(id string) []*entry  { return idx.byUEI[normalize.Identifier(id)] }
func (idx *Index) lookupCAGE(id string) []*entry { return idx.byCAGE[normalize.Identifier(id)] }
func (idx *Index) lookupDUNS(id string) []*entry { return idx.byDUNS[normalize.Identifier(id)] }

// fuzzyCandidates returns the union of name blocks sharing a token prefix
// with the given recipient name, deduplicated by contract identity.
func (idx *Index) fuzzyCandidates(recipientName string) []*entry {
	tokens := normalize.Tokens(recipientName)
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[*entry]struct{})
	var out []*entry
	for _, key := range blockKeys(tokens) {
		for _, e := range idx.blocks[key] {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func blockKeys(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		runes := []rune(token)
		if len(runes) > blockPrefixLen {
			runes = runes[:blockPrefixLen]
		}
		key := string(runes)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
