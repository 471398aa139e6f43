package freshet

import (
	"context"
	"testing"
	"time"

	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/pipeline"
	"github.com/lindenhart/freshet/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open("", WithInMemory())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func seedDocs() []core.Document {
	return []core.Document{
		{ID: "ceo-2019", Text: "Alice Newton was appointed CEO of ExampleCorp in January 2019.", Timestamp: "2019-01-01"},
		{ID: "ceo-2022", Text: "Bob Ortega became CEO of ExampleCorp, replacing Alice Newton.", Timestamp: "2022-06-01"},
		{ID: "ceo-2024", Text: "Cara Singh is the current CEO of ExampleCorp as of September 2024.", Timestamp: "2024-09-10"},
		{ID: "weather", Text: "Heavy rain fell across the northern valleys over the weekend.", Timestamp: "2023-03-02"},
		{ID: "sports", Text: "The local team won the championship after a dramatic final.", Timestamp: "2021-07-15"},
	}
}

func TestPutDocuments(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	t.Run("assigns content ids", func(t *testing.T) {
		docs := []core.Document{{Text: "some unlabeled record", Timestamp: "2024-01-01"}}
		require.NoError(t, e.PutDocuments(ctx, docs))

		want := core.IDFromContent("some unlabeled record")
		got, err := e.DocumentStore().GetDocument(ctx, want)
		require.NoError(t, err)
		assert.Equal(t, "some unlabeled record", got.Text)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		err := e.PutDocuments(ctx, []core.Document{{ID: "x", Text: "", Timestamp: "2024-01-01"}})
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})
}

func TestEngineEndToEnd(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	require.NoError(t, e.PutDocuments(ctx, seedDocs()))
	require.NoError(t, e.BuildIndex(ctx))

	cfg := pipeline.DefaultConfig()
	cfg.KStages = []int{3, 5}
	pipe, err := e.NewPipeline(ctx, cfg)
	require.NoError(t, err)

	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	resp, err := pipe.Run(ctx, "who is the current CEO of ExampleCorp", now)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "ceo-2024", resp.Results[0].ID)
}

func TestNewPipelineWithoutIndex(t *testing.T) {
	e := testEngine(t)
	_, err := e.NewPipeline(context.Background(), pipeline.DefaultConfig())
	assert.ErrorIs(t, err, storage.ErrIndexNotBuilt)
}
