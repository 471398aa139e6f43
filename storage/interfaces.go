package storage

import (
	"context"

	"github.com/lindenhart/freshet/core"
)

// DocumentStore provides operations for the prepared corpus records.
// Implementations must be thread-safe.
type DocumentStore interface {
	// PutDocuments stores one or more documents keyed by ID.
	// Existing records with the same ID are overwritten.
	PutDocuments(ctx context.Context, docs ...core.Document) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (core.Document, error)

	// ListDocuments returns all stored documents in key order.
	ListDocuments(ctx context.Context) ([]core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// IndexStore provides operations for the offline-built index artifacts.
// SaveX calls replace the previous artifact atomically; LoadX calls return
// ErrIndexNotBuilt when the artifact is absent.
type IndexStore interface {
	SaveLexicalStats(ctx context.Context, stats *core.LexicalStats) error
	LoadLexicalStats(ctx context.Context) (*core.LexicalStats, error)

	SaveProjection(ctx context.Context, proj *core.Projection) error
	LoadProjection(ctx context.Context) (*core.Projection, error)

	SaveCorpusMeta(ctx context.Context, meta *core.CorpusMeta) error
	LoadCorpusMeta(ctx context.Context) (*core.CorpusMeta, error)

	// Close releases resources held by the store.
	Close() error
}
