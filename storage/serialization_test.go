package storage

import (
	"testing"

	"github.com/lindenhart/freshet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSerialization(t *testing.T) {
	doc := &core.Document{
		ID:        "doc-1",
		Text:      "The board appointed a new chief executive in September.",
		Timestamp: "2024-09-10",
	}

	data := MarshalDocument(doc)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentSerialization_Truncated(t *testing.T) {
	doc := &core.Document{ID: "a", Text: "b", Timestamp: "2024-01-01"}
	data := MarshalDocument(doc)

	_, err := UnmarshalDocument(data[:2])
	assert.Error(t, err)
}

func TestLexicalStatsSerialization(t *testing.T) {
	stats := &core.LexicalStats{
		Postings: map[string][]core.Posting{
			"ceo":     {{Row: 0, Freq: 2}, {Row: 2, Freq: 1}},
			"company": {{Row: 1, Freq: 3}},
		},
		DocLens:   []int{12, 40, 7},
		AvgDocLen: 19.666666,
		N:         3,
	}

	data := MarshalLexicalStats(stats)
	got, err := UnmarshalLexicalStats(data)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestProjectionSerialization(t *testing.T) {
	proj := &core.Projection{
		Vocab:      []string{"alpha", "beta", "gamma"},
		Idf:        []float64{1.0, 1.4, 2.1},
		Components: [][]float64{{0.1, 0.2}, {0.3, -0.4}, {-0.5, 0.6}},
		Docs:       [][]float64{{0.7, 0.7}, {1.0, 0.0}},
		Dim:        2,
	}

	data := MarshalProjection(proj)
	got, err := UnmarshalProjection(data)
	require.NoError(t, err)
	assert.Equal(t, proj, got)
}

func TestCorpusMetaSerialization(t *testing.T) {
	meta := &core.CorpusMeta{
		IDs:        []string{"a", "b", "c"},
		Timestamps: []string{"2019-01-01", "2022-06-01", "2024-09-10"},
	}

	data := MarshalCorpusMeta(meta)
	got, err := UnmarshalCorpusMeta(data)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}
