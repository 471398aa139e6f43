// Package retrieval implements the hybrid lexical/semantic retriever. A
// Retriever loads the offline-built artifacts once at construction and is
// read-only afterwards, so one instance is safe for concurrent queries.
package retrieval

import (
	"container/heap"
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/lindenhart/freshet/analysis"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Retriever scores the whole corpus with BM25 and dense cosine similarity and
// returns the fused top-K candidates.
type Retriever struct {
	stats   *core.LexicalStats
	proj    *core.Projection
	meta    *core.CorpusMeta
	termIdx map[string]int
	logger  *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRetriever loads the index artifacts from the store. A store without
// built artifacts fails here with storage.ErrIndexNotBuilt; retrieval never
// retries, building indices is an offline concern.
func NewRetriever(ctx context.Context, idx storage.IndexStore, opts ...Option) (*Retriever, error) {
	if idx == nil {
		return nil, ErrIndexStoreRequired
	}

	stats, err := idx.LoadLexicalStats(ctx)
	if err != nil {
		return nil, err
	}
	proj, err := idx.LoadProjection(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := idx.LoadCorpusMeta(ctx)
	if err != nil {
		return nil, err
	}
	if len(meta.IDs) != stats.N || len(proj.Docs) != stats.N || len(meta.Timestamps) != stats.N {
		return nil, ErrMisalignedIndex
	}

	termIdx := make(map[string]int, len(proj.Vocab))
	for i, term := range proj.Vocab {
		termIdx[term] = i
	}

	r := &Retriever{
		stats:   stats,
		proj:    proj,
		meta:    meta,
		termIdx: termIdx,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// N returns the corpus size.
func (r *Retriever) N() int {
	return r.stats.N
}

// Retrieve returns up to k candidates ordered by descending fused combo
// score, each annotated with its min-max-normalized lexical and semantic
// partial scores. k greater than the corpus clamps to the corpus size. Pure:
// no state is mutated, results are computed fresh per call.
func (r *Retriever) Retrieve(query string, k int, alpha, beta float64) []core.Candidate {
	tokens := analysis.Tokenize(query)

	lexical := r.bm25Scores(tokens)
	semantic := r.denseScores(tokens)
	minMaxInPlace(lexical)
	minMaxInPlace(semantic)

	if k > r.stats.N {
		k = r.stats.N
	}
	if k <= 0 {
		return nil
	}

	// True top-K selection over the fused score: a bounded min-heap instead
	// of sorting the whole corpus, then a full sort of only the K selected.
	h := make(candidateHeap, 0, k)
	heap.Init(&h)
	for row := 0; row < r.stats.N; row++ {
		combo := alpha*lexical[row] + beta*semantic[row]
		if len(h) < k {
			heap.Push(&h, rowScore{row: row, combo: combo})
			continue
		}
		if h.beats(rowScore{row: row, combo: combo}) {
			h[0] = rowScore{row: row, combo: combo}
			heap.Fix(&h, 0)
		}
	}

	selected := []rowScore(h)
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].combo != selected[j].combo {
			return selected[i].combo > selected[j].combo
		}
		return selected[i].row < selected[j].row
	})

	out := make([]core.Candidate, len(selected))
	for i, rs := range selected {
		out[i] = core.Candidate{
			Doc: core.Document{
				ID:        r.meta.IDs[rs.row],
				Timestamp: r.meta.Timestamps[rs.row],
			},
			Row:      rs.row,
			Lexical:  lexical[rs.row],
			Semantic: semantic[rs.row],
			Combo:    rs.combo,
		}
	}
	return out
}

// bm25Scores computes the Okapi BM25 score of every document row against the
// query tokens.
func (r *Retriever) bm25Scores(tokens []string) []float64 {
	scores := make([]float64, r.stats.N)
	n := float64(r.stats.N)
	for _, tok := range tokens {
		postings, ok := r.stats.Postings[tok]
		if !ok {
			continue
		}
		df := float64(len(postings))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1)
		for _, p := range postings {
			tf := float64(p.Freq)
			dl := float64(r.stats.DocLens[p.Row])
			denom := tf + bm25K1*(1-bm25B+bm25B*dl/r.stats.AvgDocLen)
			scores[p.Row] += idf * tf * (bm25K1 + 1) / denom
		}
	}
	return scores
}

// denseScores computes the cosine similarity between the projected query and
// every projected document row. Document rows are pre-normalized, so the dot
// product suffices.
func (r *Retriever) denseScores(tokens []string) []float64 {
	qv := r.embedQuery(tokens)
	scores := make([]float64, r.stats.N)
	for row, dv := range r.proj.Docs {
		sum := 0.0
		for i := range qv {
			sum += qv[i] * dv[i]
		}
		scores[row] = sum
	}
	return scores
}

// embedQuery builds the L2-normalized TF-IDF vector of the query over the
// fitted vocabulary and projects it through the SVD components.
func (r *Retriever) embedQuery(tokens []string) []float64 {
	sparse := make(map[int]float64)
	for _, tok := range tokens {
		if i, ok := r.termIdx[tok]; ok {
			sparse[i] += r.proj.Idf[i]
		}
	}
	norm := 0.0
	for _, v := range sparse {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range sparse {
			sparse[i] /= norm
		}
	}

	qv := make([]float64, r.proj.Dim)
	for t, val := range sparse {
		comp := r.proj.Components[t]
		for k := range qv {
			qv[k] += val * comp[k]
		}
	}

	norm = 0.0
	for _, v := range qv {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range qv {
			qv[i] /= norm
		}
	}
	return qv
}

// minMaxInPlace rescales scores to [0,1] with a small additive epsilon in the
// denominator against zero-range vectors.
func minMaxInPlace(scores []float64) {
	if len(scores) == 0 {
		return
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
	for i := range scores {
		scores[i] = (scores[i] - lo) / span
	}
}

type rowScore struct {
	row   int
	combo float64
}

// candidateHeap is a min-heap over (combo, row); the root is always the
// weakest kept candidate. On equal combo the later row sits nearer the root
// so earlier rows survive, which preserves the stable original-order
// tie-break.
type candidateHeap []rowScore

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].combo != h[j].combo {
		return h[i].combo < h[j].combo
	}
	return h[i].row > h[j].row
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(rowScore)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// beats reports whether the incoming candidate should replace the current
// weakest kept one.
func (h candidateHeap) beats(in rowScore) bool {
	root := h[0]
	if in.combo != root.combo {
		return in.combo > root.combo
	}
	return in.row < root.row
}
