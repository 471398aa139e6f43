package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
	return path
}

func TestLoadJSONL(t *testing.T) {
	t.Run("loads records keyed by id", func(t *testing.T) {
		path := writeCorpus(t, `{"id":"a","text":"alpha","timestamp":"2019-01-01"}
{"id":"b","text":"beta","timestamp":"2022-06-01"}

{"id":"c","text":"gamma","timestamp":"2024-09-10"}
`)
		store, err := LoadJSONL(path)
		require.NoError(t, err)
		assert.Equal(t, 3, store.Len())

		text, err := store.GetText("b")
		require.NoError(t, err)
		assert.Equal(t, "beta", text)

		ts, err := store.GetTimestamp("c")
		require.NoError(t, err)
		assert.Equal(t, "2024-09-10", ts)
	})

	t.Run("missing id gets content hash", func(t *testing.T) {
		path := writeCorpus(t, `{"text":"anonymous","timestamp":"2023-01-01"}`+"\n")
		store, err := LoadJSONL(path)
		require.NoError(t, err)

		id := core.IDFromContent("anonymous")
		text, err := store.GetText(id)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadJSONL(filepath.Join(t.TempDir(), "nope.jsonl"))
		assert.ErrorIs(t, err, ErrCorpusNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeCorpus(t, "\n\n")
		_, err := LoadJSONL(path)
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})

	t.Run("invalid record fails load", func(t *testing.T) {
		path := writeCorpus(t, `{"id":"a","text":"","timestamp":"2023-01-01"}`+"\n")
		_, err := LoadJSONL(path)
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})
}

func TestStoreLookups(t *testing.T) {
	store, err := FromDocuments([]core.Document{
		{ID: "x", Text: "some text", Timestamp: "2024-01-01"},
	})
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.GetText("missing")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetTimestamp("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty document set rejected", func(t *testing.T) {
		_, err := FromDocuments(nil)
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})
}

func TestLoadStore(t *testing.T) {
	docs, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, docs.PutDocuments(ctx,
		core.Document{ID: "a", Text: "alpha", Timestamp: "2019-01-01"},
		core.Document{ID: "b", Text: "beta", Timestamp: "2022-06-01"},
	))

	store, err := LoadStore(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	text, err := store.GetText("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", text)
}
