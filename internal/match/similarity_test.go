package match

import "testing"

func TestTokenSimilarityBounds(t *testing.T) {
	cases := []struct{ a, b string }{
		{"technology", "technologies"},
		{"acme", "acme"},
		{"acme", "zenith"},
		{"a", "a"},
		{"a", "b"},
	}
	for _, tc := range cases {
		got := tokenSimilarity(tc.a, tc.b)
		if got < 0 || got > 1 {
			t.Fatalf("tokenSimilarity(%q, %q) = %v, outside [0,1]", tc.a, tc.b, got)
		}
	}
	if got := tokenSimilarity("acme", "acme"); got != 1.0 {
		t.Fatalf("identical tokens should score 1.0, got %v", got)
	}
	if got := tokenSimilarity("acme", "zzzz"); got != 0 {
		t.Fatalf("disjoint tokens should score 0, got %v", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := []string{"acme", "technology"}
	b := []string{"acme", "technologies"}
	forward := similarity(a, b)
	backward := similarity(b, a)
	if forward != backward {
		t.Fatalf("similarity not symmetric: %v vs %v", forward, backward)
	}
	if forward <= 0.65 {
		t.Fatalf("near-identical names should clear the default floor, got %v", forward)
	}
}

func TestSimilarityEmptyTokens(t *testing.T) {
	if got := similarity(nil, []string{"acme"}); got != 0 {
		t.Fatalf("empty side should score 0, got %v", got)
	}
	if got := similarity([]string{"acme"}, nil); got != 0 {
		t.Fatalf("empty side should score 0, got %v", got)
	}
}

func TestSimilarityDistinctNamesStayLow(t *testing.T) {
	a := []string{"acme", "technology"}
	b := []string{"boreal", "logistics"}
	if got := similarity(a, b); got >= 0.65 {
		t.Fatalf("unrelated names should stay under the floor, got %v", got)
	}
}
