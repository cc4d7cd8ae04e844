package normalize_test

import (
	"testing"

	"transition/internal/normalize"
)

func TestNameCanonicalization(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowercases", "  Acme Technology  ", "acme technology"},
		{"strips single legal suffix", "Acme Technologies Inc", "acme technologies"},
		{"strips punctuated suffix", "Acme Technologies, Inc.", "acme technologies"},
		{"strips stacked suffixes", "Acme Holdings Co LLC", "acme holdings"},
		{"keeps suffix-only name", "Corp", "corp"},
		{"collapses internal whitespace", "Acme   Dynamic\tSystems", "acme dynamic systems"},
		{"replaces ampersand", "Smith & Wesson", "smith and wesson"},
		{"folds diacritics", "Café Systèmes SARL", "cafe systemes"},
		{"empty input", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize.Name(tc.in); got != tc.want {
				t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNameIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Technologies, Inc.",
		"Café Systèmes SARL",
		"SMITH & WESSON CORP",
		"plain name",
		"",
	}
	for _, in := range inputs {
		once := normalize.Name(in)
		twice := normalize.Name(once)
		if once != twice {
			t.Fatalf("Name not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIdentifier(t *testing.T) {
	cases := []struct{ in, want string }{
		{" abc123def ", "ABC123DEF"},
		{"1A2-B3C", "1A2B3C"},
		{"", ""},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := normalize.Identifier(tc.in); got != tc.want {
			t.Fatalf("Identifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := normalize.Tokens("Acme Dynamic Systems, LLC")
	want := []string{"acme", "dynamic", "systems"}
	if len(got) != len(want) {
		t.Fatalf("Tokens returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokens returned %v, want %v", got, want)
		}
	}
}
