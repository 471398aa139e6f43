package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreeCentrality(t *testing.T) {
	t.Run("corroborated pair outranks the loner", func(t *testing.T) {
		texts := []string{
			"the board announced a new chief executive this morning",
			"the board announced a new chief executive this afternoon",
			"heavy rain flooded the valley roads overnight",
		}
		g := New(texts)
		cent := g.DegreeCentrality(DefaultThreshold)
		require.Len(t, cent, 3)
		assert.GreaterOrEqual(t, cent[0], cent[2])
		assert.GreaterOrEqual(t, cent[1], cent[2])
		assert.Greater(t, cent[0], 0.0)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, New(nil).DegreeCentrality(DefaultThreshold))
	})

	t.Run("single node is zero", func(t *testing.T) {
		cent := New([]string{"only one document"}).DegreeCentrality(DefaultThreshold)
		require.Len(t, cent, 1)
		assert.Zero(t, cent[0])
	})

	t.Run("all disjoint gives all zeros", func(t *testing.T) {
		texts := []string{
			"alpha bravo charlie delta",
			"echo foxtrot golf hotel",
			"india juliett kilo lima",
		}
		cent := New(texts).DegreeCentrality(DefaultThreshold)
		for _, c := range cent {
			assert.Zero(t, c)
		}
	})

	t.Run("values in unit interval", func(t *testing.T) {
		texts := []string{
			"shared words one two three four five",
			"shared words one two three four six",
			"shared words one two seven eight nine",
			"totally different content here",
		}
		cent := New(texts).DegreeCentrality(DefaultThreshold)
		for _, c := range cent {
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	})
}

func TestPageRank(t *testing.T) {
	t.Run("no edges gives all zeros", func(t *testing.T) {
		texts := []string{
			"alpha bravo charlie delta",
			"echo foxtrot golf hotel",
		}
		pr := New(texts).PageRank(DefaultThreshold, 0.85)
		require.Len(t, pr, 2)
		assert.Zero(t, pr[0])
		assert.Zero(t, pr[1])
	})

	t.Run("corroborated pair outranks the loner", func(t *testing.T) {
		texts := []string{
			"the board announced a new chief executive this morning",
			"the board announced a new chief executive this afternoon",
			"heavy rain flooded the valley roads overnight",
		}
		pr := New(texts).PageRank(DefaultThreshold, 0.85)
		require.Len(t, pr, 3)
		assert.Greater(t, pr[0], pr[2])
		assert.Greater(t, pr[1], pr[2])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, New(nil).PageRank(DefaultThreshold, 0.85))
	})
}

func TestJaccardPair(t *testing.T) {
	g := New([]string{
		"one two three four",
		"one two three four",
		"five six seven eight",
	})
	assert.InDelta(t, 1.0, g.Jaccard(0, 1), 1e-6)
	assert.Zero(t, g.Jaccard(0, 2))
}
