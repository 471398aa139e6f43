package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic document ID from text content using
// BLAKE2b hashing. Identical content always produces the same ID, which keeps
// corpus preparation idempotent for records that arrive without an id.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Document is one timestamped entry in the corpus. Documents are immutable
// once loaded; the query path only ever reads them by ID.
type Document struct {
	ID        string
	Text      string
	Timestamp string // ISO-8601 date or datetime
}

// Candidate is a document reference with the two partial retrieval scores and
// the raw fused combo score. Candidates live only within one retrieval call.
type Candidate struct {
	Doc      Document
	Row      int // row index into the projected document matrix
	Lexical  float64
	Semantic float64
	Combo    float64
}

// Score part names used by fusion weights and per-result score breakdowns.
const (
	PartLexical    = "lexical"
	PartSemantic   = "semantic"
	PartCentrality = "centrality"
	PartDecay      = "decay"
)

// ScoredResult is the per-stage output unit: a document, its four-part score
// breakdown, and the fused score. Ranking is by Score descending with ties
// broken by original order.
type ScoredResult struct {
	Doc   Document
	Parts map[string]float64
	Score float64
}

// Posting records one document's occurrence data for a term.
type Posting struct {
	Row  int // row index of the document
	Freq int // term frequency within the document
}

// LexicalStats holds the inverted posting structure and document statistics
// backing the Okapi BM25 scorer. Built offline, read-only at query time.
type LexicalStats struct {
	Postings  map[string][]Posting
	DocLens   []int
	AvgDocLen float64
	N         int
}

// Projection holds the TF-IDF vocabulary and the truncated-SVD projection
// used for dense semantic scoring. Components is vocab x dim; Docs is the
// projected, L2-normalized document matrix (N x dim), row-aligned with
// CorpusMeta.
type Projection struct {
	Vocab      []string
	Idf        []float64
	Components [][]float64
	Docs       [][]float64
	Dim        int
}

// CorpusMeta carries document ids and timestamps aligned by row index with
// the projected document matrix.
type CorpusMeta struct {
	IDs        []string
	Timestamps []string
}
