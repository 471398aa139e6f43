// Package budget implements the progressive-budget halting policy. After
// each retrieval stage the policy inspects the top fused scores and the
// textual agreement among the leading candidates, and decides whether the
// result set is confident enough to stop escalating.
package budget

import (
	"fmt"

	"github.com/lindenhart/freshet/analysis"
)

// Default thresholds. The strict preset requires both a clear score margin
// and textual corroboration; the margin-only preset suits callers that gate
// on score gap alone.
const (
	DefaultMarginThresh = 0.15
	DefaultAgreeThresh  = 0.12
	DefaultAgreeK       = 5

	MarginOnlyMarginThresh = 0.1
	MarginOnlyAgreeThresh  = 0.0
)

// Decision is the outcome of one halting check. Reason embeds the numeric
// margin and agreement values for observability; nothing machine-parses it.
type Decision struct {
	Halt   bool
	Reason string
}

// Policy decides whether a stage's results warrant stopping. Immutable after
// construction.
type Policy struct {
	marginThresh float64
	agreeThresh  float64
	agreeK       int
}

// New creates a Policy with explicit thresholds. agreeK caps how many leading
// texts enter the agreement computation; values below 2 fall back to the
// default.
func New(marginThresh, agreeThresh float64, agreeK int) *Policy {
	if agreeK < 2 {
		agreeK = DefaultAgreeK
	}
	return &Policy{
		marginThresh: marginThresh,
		agreeThresh:  agreeThresh,
		agreeK:       agreeK,
	}
}

// NewStrict creates a Policy with the strict default thresholds.
func NewStrict() *Policy {
	return New(DefaultMarginThresh, DefaultAgreeThresh, DefaultAgreeK)
}

// NewMarginOnly creates a Policy that halts on score margin alone.
func NewMarginOnly() *Policy {
	return New(MarginOnlyMarginThresh, MarginOnlyAgreeThresh, DefaultAgreeK)
}

// Agreement computes the mean pairwise 3-gram shingle Jaccard similarity of
// the first agreeK texts. Returns 0 when fewer than two texts are available.
func (p *Policy) Agreement(texts []string) float64 {
	k := min(p.agreeK, len(texts))
	if k < 2 {
		return 0.0
	}
	sets := make([]map[string]struct{}, k)
	for i := 0; i < k; i++ {
		sets[i] = analysis.Shingles(analysis.Tokenize(texts[i]), 3)
	}
	sum, pairs := 0.0, 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			sum += analysis.Jaccard(sets[i], sets[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// Decide examines the top fused scores and their texts. Fewer than two
// candidates halt immediately; otherwise the policy halts only when the
// normalized gap between the best and second-best scores reaches the margin
// threshold AND the leading texts corroborate each other. A lone outlier with
// a big margin but no corroboration keeps escalating.
func (p *Policy) Decide(topScores []float64, topTexts []string) Decision {
	if len(topScores) < 2 {
		return Decision{Halt: true, Reason: "single candidate"}
	}

	lo, hi := topScores[0], topScores[0]
	for _, s := range topScores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	span := hi - lo + 1e-9
	margin := (topScores[0] - topScores[1]) / span
	agree := p.Agreement(topTexts)

	reason := fmt.Sprintf("margin=%.3f, agree=%.3f", margin, agree)
	if margin >= p.marginThresh && agree >= p.agreeThresh {
		return Decision{Halt: true, Reason: reason}
	}
	return Decision{Halt: false, Reason: reason}
}
