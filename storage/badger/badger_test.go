package badger

import (
	"context"
	"testing"

	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore(t *testing.T) {
	docs, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	sample := []core.Document{
		{ID: "a", Text: "alpha text", Timestamp: "2019-01-01"},
		{ID: "b", Text: "beta text", Timestamp: "2022-06-01"},
		{ID: "c", Text: "gamma text", Timestamp: "2024-09-10"},
	}

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, docs.PutDocuments(ctx, sample...))

		got, err := docs.GetDocument(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, sample[1], got)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := docs.GetDocument(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list returns all in key order", func(t *testing.T) {
		all, err := docs.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "a", all[0].ID)
		assert.Equal(t, "c", all[2].ID)
	})

	t.Run("count", func(t *testing.T) {
		n, err := docs.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("put overwrites", func(t *testing.T) {
		updated := core.Document{ID: "a", Text: "alpha revised", Timestamp: "2019-01-01"}
		require.NoError(t, docs.PutDocuments(ctx, updated))

		got, err := docs.GetDocument(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "alpha revised", got.Text)

		n, err := docs.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestIndexStore(t *testing.T) {
	_, idx, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	t.Run("missing artifacts report ErrIndexNotBuilt", func(t *testing.T) {
		_, err := idx.LoadLexicalStats(ctx)
		assert.ErrorIs(t, err, storage.ErrIndexNotBuilt)

		_, err = idx.LoadProjection(ctx)
		assert.ErrorIs(t, err, storage.ErrIndexNotBuilt)

		_, err = idx.LoadCorpusMeta(ctx)
		assert.ErrorIs(t, err, storage.ErrIndexNotBuilt)
	})

	t.Run("save and load round-trip", func(t *testing.T) {
		stats := &core.LexicalStats{
			Postings:  map[string][]core.Posting{"ceo": {{Row: 0, Freq: 1}}},
			DocLens:   []int{10},
			AvgDocLen: 10,
			N:         1,
		}
		require.NoError(t, idx.SaveLexicalStats(ctx, stats))

		proj := &core.Projection{
			Vocab:      []string{"ceo"},
			Idf:        []float64{1.0},
			Components: [][]float64{{1.0, 0.0}},
			Docs:       [][]float64{{1.0, 0.0}},
			Dim:        2,
		}
		require.NoError(t, idx.SaveProjection(ctx, proj))

		meta := &core.CorpusMeta{IDs: []string{"a"}, Timestamps: []string{"2024-01-01"}}
		require.NoError(t, idx.SaveCorpusMeta(ctx, meta))

		gotStats, err := idx.LoadLexicalStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, stats, gotStats)

		gotProj, err := idx.LoadProjection(ctx)
		require.NoError(t, err)
		assert.Equal(t, proj, gotProj)

		gotMeta, err := idx.LoadCorpusMeta(ctx)
		require.NoError(t, err)
		assert.Equal(t, meta, gotMeta)
	})

	t.Run("save replaces previous artifact", func(t *testing.T) {
		meta := &core.CorpusMeta{IDs: []string{"a", "b"}, Timestamps: []string{"2024-01-01", "2024-02-01"}}
		require.NoError(t, idx.SaveCorpusMeta(ctx, meta))

		got, err := idx.LoadCorpusMeta(ctx)
		require.NoError(t, err)
		assert.Equal(t, meta, got)
	})
}
