// Package matcher provides normalized string-similarity matching for
// entity resolution and contamination checks. It wraps Levenshtein-based
// similarity with the deterministic tie-break rules the pipeline depends on.
package matcher

import (
	"github.com/agext/levenshtein"
)

// Ratio returns a normalized similarity score in [0, 1] between two
// strings. 1 means identical, 0 means nothing in common.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return levenshtein.Similarity(a, b, nil)
}

// Candidate is one named candidate for fuzzy matching.
type Candidate struct {
	Key  string // the string compared against
	ID   string // the entity the key belongs to
}

// Best returns the candidate whose key is most similar to target at or
// above threshold, or ok=false when none qualifies. Ties on score break
// deterministically to the lexicographically smallest ID, so resolution
// does not depend on map iteration order.
func Best(target string, candidates []Candidate, threshold float64) (Candidate, float64, bool) {
	var best Candidate
	bestScore := 0.0
	found := false

	for _, c := range candidates {
		score := Ratio(target, c.Key)
		if score < threshold {
			continue
		}
		if !found || score > bestScore || (score == bestScore && c.ID < best.ID) {
			best = c
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}
