package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	t.Run("single candidate halts", func(t *testing.T) {
		dec := NewStrict().Decide([]float64{0.9}, []string{"only one"})
		assert.True(t, dec.Halt)
		assert.Equal(t, "single candidate", dec.Reason)
	})

	t.Run("no candidates halt", func(t *testing.T) {
		dec := NewStrict().Decide(nil, nil)
		assert.True(t, dec.Halt)
	})

	t.Run("clear winner halts under margin-only preset", func(t *testing.T) {
		dec := NewMarginOnly().Decide(
			[]float64{0.9, 0.2},
			[]string{"completely unrelated text one", "something else entirely here"},
		)
		assert.True(t, dec.Halt)
		assert.Contains(t, dec.Reason, "margin=")
		assert.Contains(t, dec.Reason, "agree=")
	})

	t.Run("near tie with discordant text must not halt under strict preset", func(t *testing.T) {
		dec := NewStrict().Decide(
			[]float64{0.52, 0.50, 0.10},
			[]string{
				"apple banana cherry date elderberry",
				"metal alloys resist corrosion over decades",
				"the committee postponed the vote indefinitely",
			},
		)
		assert.False(t, dec.Halt)
	})

	t.Run("big margin without corroboration escalates under strict preset", func(t *testing.T) {
		dec := NewStrict().Decide(
			[]float64{0.95, 0.1, 0.05},
			[]string{
				"apple banana cherry date elderberry",
				"metal alloys resist corrosion over decades",
				"the committee postponed the vote indefinitely",
			},
		)
		assert.False(t, dec.Halt)
	})

	t.Run("margin and corroboration together halt", func(t *testing.T) {
		dec := NewStrict().Decide(
			[]float64{0.95, 0.4, 0.35},
			[]string{
				"the board appointed cara singh as chief executive",
				"the board appointed cara singh as chief executive officer",
				"cara singh appointed as the chief executive by the board",
			},
		)
		assert.True(t, dec.Halt)
	})
}

func TestAgreement(t *testing.T) {
	t.Run("identical texts agree fully", func(t *testing.T) {
		p := NewStrict()
		a := p.Agreement([]string{
			"one two three four five",
			"one two three four five",
		})
		assert.InDelta(t, 1.0, a, 1e-6)
	})

	t.Run("fewer than two texts is zero", func(t *testing.T) {
		p := NewStrict()
		assert.Zero(t, p.Agreement(nil))
		assert.Zero(t, p.Agreement([]string{"alone"}))
	})

	t.Run("disjoint texts is zero", func(t *testing.T) {
		p := NewStrict()
		a := p.Agreement([]string{
			"alpha bravo charlie delta",
			"echo foxtrot golf hotel",
		})
		assert.Zero(t, a)
	})

	t.Run("agreeK caps the window", func(t *testing.T) {
		// With agreeK=2 only the first two texts matter; the third,
		// identical to the first, must not raise the score.
		p := New(0.15, 0.12, 2)
		a := p.Agreement([]string{
			"alpha bravo charlie delta",
			"echo foxtrot golf hotel",
			"alpha bravo charlie delta",
		})
		assert.Zero(t, a)
	})
}
