// Package graph builds the evidence-corroboration graph over one stage's
// retrieved candidates. Nodes are candidate texts; edges carry the 3-gram
// shingle Jaccard similarity between them. Centrality over this graph rewards
// documents whose content is corroborated by other retrieved evidence.
package graph

import (
	"github.com/lindenhart/freshet/analysis"
)

// DefaultThreshold is the minimum Jaccard similarity for an edge.
const DefaultThreshold = 0.05

// DefaultDamping is the standard PageRank damping factor.
const DefaultDamping = 0.85

// EvidenceGraph holds the precomputed shingle sets of one candidate pool.
// Construction is O(total tokens); each centrality call walks all pairs.
type EvidenceGraph struct {
	shingles []map[string]struct{}
}

// New builds an EvidenceGraph over the candidate texts.
func New(texts []string) *EvidenceGraph {
	shingles := make([]map[string]struct{}, len(texts))
	for i, text := range texts {
		shingles[i] = analysis.Shingles(analysis.Tokenize(text), 3)
	}
	return &EvidenceGraph{shingles: shingles}
}

// Jaccard returns the shingle Jaccard similarity between candidates i and j.
func (g *EvidenceGraph) Jaccard(i, j int) float64 {
	return analysis.Jaccard(g.shingles[i], g.shingles[j])
}

// DegreeCentrality computes each node's weighted degree over edges with
// similarity >= threshold, min-max normalized to [0,1]. Zero nodes yield an
// empty result; when every degree is equal (including all zero) the result is
// all zeros rather than a division by zero.
func (g *EvidenceGraph) DegreeCentrality(threshold float64) []float64 {
	n := len(g.shingles)
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := g.Jaccard(i, j)
			if w >= threshold {
				deg[i] += w
				deg[j] += w
			}
		}
	}
	return normalizeCentrality(deg)
}

// PageRank computes an eigenvector-style importance score over the same
// weighted graph, as a drop-in alternative to degree centrality. Transition
// probability is proportional to edge weight. A graph with no edges yields
// all zeros.
func (g *EvidenceGraph) PageRank(threshold, damping float64) []float64 {
	n := len(g.shingles)
	if n == 0 {
		return []float64{}
	}

	weights := make([][]float64, n)
	outSum := make([]float64, n)
	edges := 0
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := g.Jaccard(i, j)
			if w >= threshold {
				weights[i][j] = w
				weights[j][i] = w
				outSum[i] += w
				outSum[j] += w
				edges++
			}
		}
	}
	if edges == 0 {
		return make([]float64, n)
	}

	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}
	const iterations = 50
	for range iterations {
		for i := range next {
			next[i] = (1 - damping) / float64(n)
		}
		for j := range weights {
			if outSum[j] == 0 {
				// Dangling node: spread its mass uniformly.
				share := damping * rank[j] / float64(n)
				for i := range next {
					next[i] += share
				}
				continue
			}
			for i, w := range weights[j] {
				if w > 0 {
					next[i] += damping * rank[j] * w / outSum[j]
				}
			}
		}
		rank, next = next, rank
	}
	return normalizeCentrality(rank)
}

// normalizeCentrality min-max normalizes scores to [0,1]; an all-equal vector
// maps to all zeros.
func normalizeCentrality(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	span := hi - lo + 1e-9
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = (s - lo) / span
	}
	return out
}
