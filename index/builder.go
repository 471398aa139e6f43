// Package index implements the offline index builder. It produces the three
// read-only artifacts the query path depends on: Okapi BM25 posting
// statistics, a TF-IDF vocabulary with a truncated-SVD dense projection, and
// the row-aligned corpus metadata.
package index

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/lindenhart/freshet/analysis"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
)

const (
	defaultDim      = 128
	defaultMaxVocab = 2000
	svdSeed         = 42
)

// Builder constructs index artifacts from a prepared corpus.
type Builder struct {
	dim      int
	maxVocab int
	poolSize int
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithDim sets the dense projection dimensionality.
// Default is 128, clamped to min(vocabulary, documents) at build time.
func WithDim(dim int) Option {
	return func(b *Builder) {
		if dim > 0 {
			b.dim = dim
		}
	}
}

// WithMaxVocab caps the TF-IDF vocabulary at the most frequent terms.
// Default is 2000.
func WithMaxVocab(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.maxVocab = size
		}
	}
}

// WithPoolSize sets the tokenization worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.poolSize = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	b := &Builder{
		dim:      defaultDim,
		maxVocab: defaultMaxVocab,
		poolSize: poolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs all artifacts from the given documents. Documents are
// sorted by id so row order, and with it every artifact, is deterministic
// for a given corpus.
func (b *Builder) Build(ctx context.Context, docs []core.Document) (*core.LexicalStats, *core.Projection, *core.CorpusMeta, error) {
	if len(docs) == 0 {
		return nil, nil, nil, ErrNoDocuments
	}

	ordered := make([]core.Document, len(docs))
	copy(ordered, docs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	tokenized, err := b.tokenizeAll(ordered)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	stats := buildLexicalStats(tokenized)
	proj := b.buildProjection(tokenized, stats)

	meta := &core.CorpusMeta{
		IDs:        make([]string, len(ordered)),
		Timestamps: make([]string, len(ordered)),
	}
	for i, doc := range ordered {
		meta.IDs[i] = doc.ID
		meta.Timestamps[i] = doc.Timestamp
	}

	b.logger.Info("index built",
		"documents", stats.N,
		"terms", len(stats.Postings),
		"vocab", len(proj.Vocab),
		"dim", proj.Dim)
	return stats, proj, meta, nil
}

// BuildAndSave builds the artifacts and persists them to the index store.
func (b *Builder) BuildAndSave(ctx context.Context, docs []core.Document, idx storage.IndexStore) error {
	stats, proj, meta, err := b.Build(ctx, docs)
	if err != nil {
		return err
	}
	if err := idx.SaveLexicalStats(ctx, stats); err != nil {
		return err
	}
	if err := idx.SaveProjection(ctx, proj); err != nil {
		return err
	}
	return idx.SaveCorpusMeta(ctx, meta)
}

// tokenizeAll tokenizes every document on the worker pool.
func (b *Builder) tokenizeAll(docs []core.Document) ([][]string, error) {
	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	tokenized := make([][]string, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		row, text := i, docs[i].Text
		if err := pool.Submit(func() {
			defer wg.Done()
			tokenized[row] = analysis.Tokenize(text)
		}); err != nil {
			wg.Done()
			pool.Release()
			return nil, err
		}
	}
	wg.Wait()
	return tokenized, nil
}

// buildLexicalStats accumulates the inverted posting structure and per-row
// document lengths used by BM25.
func buildLexicalStats(tokenized [][]string) *core.LexicalStats {
	stats := &core.LexicalStats{
		Postings: make(map[string][]core.Posting),
		DocLens:  make([]int, len(tokenized)),
		N:        len(tokenized),
	}
	totalLen := 0
	for row, tokens := range tokenized {
		stats.DocLens[row] = len(tokens)
		totalLen += len(tokens)
		counts := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[tok]++
		}
		// Deterministic posting order: rows ascend, and within a row terms
		// are appended once each.
		for term, freq := range counts {
			stats.Postings[term] = append(stats.Postings[term], core.Posting{Row: row, Freq: freq})
		}
	}
	if stats.N > 0 {
		stats.AvgDocLen = float64(totalLen) / float64(stats.N)
	}
	return stats
}

// buildProjection fits the capped TF-IDF vocabulary and the truncated-SVD
// projection, then projects every document row.
func (b *Builder) buildProjection(tokenized [][]string, stats *core.LexicalStats) *core.Projection {
	n := len(tokenized)

	// Collection frequency drives the vocabulary cap; document frequency
	// drives idf.
	type termCount struct {
		term string
		cf   int
	}
	cf := make(map[string]int)
	for term, postings := range stats.Postings {
		total := 0
		for _, p := range postings {
			total += p.Freq
		}
		cf[term] = total
	}
	counts := make([]termCount, 0, len(cf))
	for term, c := range cf {
		counts = append(counts, termCount{term, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].cf != counts[j].cf {
			return counts[i].cf > counts[j].cf
		}
		return counts[i].term < counts[j].term
	})
	if len(counts) > b.maxVocab {
		counts = counts[:b.maxVocab]
	}

	vocab := make([]string, len(counts))
	for i, tc := range counts {
		vocab[i] = tc.term
	}
	sort.Strings(vocab)

	termIdx := make(map[string]int, len(vocab))
	for i, term := range vocab {
		termIdx[term] = i
	}

	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		df := len(stats.Postings[term])
		idf[i] = math.Log(float64(1+n)/float64(1+df)) + 1
	}

	// Sparse L2-normalized TF-IDF rows. Indices are kept sorted so every
	// floating-point accumulation below runs in a fixed order and the built
	// projection is bit-for-bit reproducible.
	rows := make([]sparseVec, n)
	for row, tokens := range tokenized {
		vec := make(map[int]float64)
		for _, tok := range tokens {
			if i, ok := termIdx[tok]; ok {
				vec[i] += idf[i]
			}
		}
		rows[row] = newSparseVec(vec)
		rows[row].normalize()
	}

	dim := b.dim
	if dim > len(vocab) {
		dim = len(vocab)
	}
	if dim > n {
		dim = n
	}

	// Gram matrix of the TF-IDF rows; its top eigenvectors are the right
	// singular directions of the row matrix.
	v := len(vocab)
	gram := make([][]float64, v)
	for i := range gram {
		gram[i] = make([]float64, v)
	}
	for _, vec := range rows {
		for a, i := range vec.idx {
			for b, j := range vec.idx {
				gram[i][j] += vec.val[a] * vec.val[b]
			}
		}
	}
	eigvecs := topEigenvectors(gram, dim, svdSeed)
	dim = len(eigvecs)

	components := make([][]float64, v)
	for t := range components {
		components[t] = make([]float64, dim)
		for k := range eigvecs {
			components[t][k] = eigvecs[k][t]
		}
	}

	docs := make([][]float64, n)
	for row, vec := range rows {
		p := make([]float64, dim)
		for a, t := range vec.idx {
			for k := 0; k < dim; k++ {
				p[k] += vec.val[a] * components[t][k]
			}
		}
		normalizeInPlace(p)
		docs[row] = p
	}

	return &core.Projection{
		Vocab:      vocab,
		Idf:        idf,
		Components: components,
		Docs:       docs,
		Dim:        dim,
	}
}

// sparseVec is a sorted-index sparse vector.
type sparseVec struct {
	idx []int
	val []float64
}

func newSparseVec(m map[int]float64) sparseVec {
	idx := make([]int, 0, len(m))
	for i := range m {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	val := make([]float64, len(idx))
	for a, i := range idx {
		val[a] = m[i]
	}
	return sparseVec{idx: idx, val: val}
}

func (v sparseVec) normalize() {
	normalizeInPlace(v.val)
}

// normalizeInPlace scales a vector to unit length. Zero vectors are left as
// zeros.
func normalizeInPlace(v []float64) {
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
}
