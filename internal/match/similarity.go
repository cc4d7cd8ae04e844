package match

// Token-based name similarity: each token on one side is scored against its
// best bigram-Dice counterpart on the other side, weighted by token length,
// and the two directional means are averaged. Returns a value in [0,1].
// Calibration of the acceptance floor against this metric lives in
// configuration, not here.
func similarity(aTokens, bTokens []string) float64 {
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}
	forward := directionalSimilarity(aTokens, bTokens)
	backward := directionalSimilarity(bTokens, aTokens)
	return (forward + backward) / 2
}

func directionalSimilarity(from, to []string) float64 {
	var weighted, totalWeight float64
	for _, token := range from {
		best := 0.0
		for _, other := range to {
			score := tokenSimilarity(token, other)
			if score > best {
				best = score
			}
			if best == 1.0 {
				break
			}
		}
		weight := float64(len(token))
		weighted += best * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0
	}
	counts := make(map[string]int, len(aBigrams))
	for _, g := range aBigrams {
		counts[g]++
	}
	common := 0
	for _, g := range bBigrams {
		if counts[g] > 0 {
			counts[g]--
			common++
		}
	}
	return 2 * float64(common) / float64(len(aBigrams)+len(bBigrams))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		if len(runes) == 1 {
			return []string{string(runes)}
		}
		return nil
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
