package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are entity-form suffixes stripped from the tail of a name.
// Stored in normalized form (lowercase, no punctuation).
var legalSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"llc":          {},
	"llp":          {},
	"lp":           {},
	"ltd":          {},
	"limited":      {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"company":      {},
	"plc":          {},
	"pllc":         {},
	"gmbh":         {},
	"sarl":         {},
	"sa":           {},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a company or recipient name: fold diacritics, lowercase,
// replace symbol words, drop punctuation, strip trailing legal suffixes, and
// collapse internal whitespace.
func Name(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "+", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		if _, ok := legalSuffixes[last]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Identifier canonicalizes a UEI, CAGE, or DUNS value: trim, uppercase, and
// drop separator punctuation. Identifier codes are case-insensitive in source
// data but letter-case-significant nowhere.
func Identifier(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Tokens returns the whitespace-delimited tokens of a normalized name.
func Tokens(raw string) []string {
	return strings.Fields(Name(raw))
}
