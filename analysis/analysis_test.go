package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"hello", "world"}, Tokenize("Hello, World!"))
	})

	t.Run("idempotent on own output", func(t *testing.T) {
		first := Tokenize("The QUICK brown-fox, 42 times_over!")
		second := Tokenize(joinSpace(first))
		assert.Equal(t, first, second)
	})

	t.Run("underscore kept inside tokens", func(t *testing.T) {
		assert.Equal(t, []string{"snake_case"}, Tokenize("snake_case"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
		assert.Empty(t, Tokenize("!!! ???"))
	})
}

func joinSpace(tokens []string) string {
	out := ""
	for i, tok := range tokens {
		if i > 0 {
			out += " "
		}
		out += tok
	}
	return out
}

func TestShingles(t *testing.T) {
	t.Run("trigrams over four tokens", func(t *testing.T) {
		got := Shingles([]string{"a", "b", "c", "d"}, 3)
		assert.Len(t, got, 2)
		assert.Contains(t, got, "a b c")
		assert.Contains(t, got, "b c d")
	})

	t.Run("empty tokens give empty set", func(t *testing.T) {
		assert.Empty(t, Shingles(nil, 3))
	})

	t.Run("fewer tokens than n gives one shingle", func(t *testing.T) {
		got := Shingles([]string{"x"}, 3)
		assert.Len(t, got, 1)
		assert.Contains(t, got, "x")

		got = Shingles([]string{"x", "y"}, 3)
		assert.Len(t, got, 1)
		assert.Contains(t, got, "x y")
	})
}

func TestJaccard(t *testing.T) {
	set := func(items ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(items))
		for _, it := range items {
			m[it] = struct{}{}
		}
		return m
	}

	t.Run("identical sets near one", func(t *testing.T) {
		a := set("x", "y", "z")
		assert.InDelta(t, 1.0, Jaccard(a, a), 1e-6)
	})

	t.Run("disjoint sets zero", func(t *testing.T) {
		assert.Zero(t, Jaccard(set("a"), set("b")))
	})

	t.Run("either empty is zero", func(t *testing.T) {
		assert.Zero(t, Jaccard(set(), set("a")))
		assert.Zero(t, Jaccard(set("a"), set()))
	})

	t.Run("partial overlap", func(t *testing.T) {
		// |{b} ∩| = 1, |{a b c}| union = 3
		assert.InDelta(t, 1.0/3.0, Jaccard(set("a", "b"), set("b", "c")), 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := set("a", "b", "c"), set("b", "c", "d", "e")
		assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
	})
}
