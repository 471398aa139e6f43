// Package analysis provides the text similarity primitives shared by lexical
// scoring, evidence-graph construction, and the halting policy: tokenization,
// n-gram shingling, and Jaccard set similarity.
package analysis

import (
	"regexp"
	"strings"
)

var wordRE = regexp.MustCompile(`[a-z0-9_]+`)

// Tokenize splits text into lowercase alphanumeric tokens. Any run of
// characters outside [a-z0-9_] is a separator. Deterministic and
// locale-independent.
func Tokenize(text string) []string {
	return wordRE.FindAllString(strings.ToLower(text), -1)
}

// Shingles returns the set of space-joined n-grams over tokens. When fewer
// than n tokens are available the whole joined sequence becomes the single
// shingle, so short documents still produce exactly one shingle rather than
// none. Empty input yields an empty set.
func Shingles(tokens []string, n int) map[string]struct{} {
	out := make(map[string]struct{})
	if len(tokens) == 0 {
		return out
	}
	if len(tokens) < n {
		out[strings.Join(tokens, " ")] = struct{}{}
		return out
	}
	for i := 0; i+n <= len(tokens); i++ {
		out[strings.Join(tokens[i:i+n], " ")] = struct{}{}
	}
	return out
}

// Jaccard computes |a ∩ b| / |a ∪ b| with a small epsilon in the denominator.
// Returns 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for s := range small {
		if _, ok := large[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / (float64(union) + 1e-9)
}
