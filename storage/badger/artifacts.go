package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
)

// IndexStore implements storage.IndexStore for BadgerDB. Index artifacts are
// written by the offline builder and read once at retriever construction;
// each artifact is a single value.
type IndexStore struct {
	backend *Backend
}

var _ storage.IndexStore = (*IndexStore)(nil)

// NewIndexStore creates a new IndexStore over the backend.
func NewIndexStore(backend *Backend) *IndexStore {
	return &IndexStore{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (s *IndexStore) Close() error {
	return nil
}

func (s *IndexStore) saveArtifact(key string, value []byte) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (s *IndexStore) loadArtifact(key string) ([]byte, error) {
	var value []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", storage.ErrIndexNotBuilt, key)
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	}, false)
	return value, err
}

// SaveLexicalStats persists the BM25 posting statistics.
func (s *IndexStore) SaveLexicalStats(ctx context.Context, stats *core.LexicalStats) error {
	return s.saveArtifact(lexicalStatsKey, storage.MarshalLexicalStats(stats))
}

// LoadLexicalStats loads the BM25 posting statistics.
// Returns storage.ErrIndexNotBuilt when absent.
func (s *IndexStore) LoadLexicalStats(ctx context.Context) (*core.LexicalStats, error) {
	data, err := s.loadArtifact(lexicalStatsKey)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalLexicalStats(data)
}

// SaveProjection persists the dense projection artifacts.
func (s *IndexStore) SaveProjection(ctx context.Context, proj *core.Projection) error {
	return s.saveArtifact(projectionKey, storage.MarshalProjection(proj))
}

// LoadProjection loads the dense projection artifacts.
// Returns storage.ErrIndexNotBuilt when absent.
func (s *IndexStore) LoadProjection(ctx context.Context) (*core.Projection, error) {
	data, err := s.loadArtifact(projectionKey)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalProjection(data)
}

// SaveCorpusMeta persists the row-aligned ids and timestamps.
func (s *IndexStore) SaveCorpusMeta(ctx context.Context, meta *core.CorpusMeta) error {
	return s.saveArtifact(corpusMetaKey, storage.MarshalCorpusMeta(meta))
}

// LoadCorpusMeta loads the row-aligned ids and timestamps.
// Returns storage.ErrIndexNotBuilt when absent.
func (s *IndexStore) LoadCorpusMeta(ctx context.Context) (*core.CorpusMeta, error) {
	data, err := s.loadArtifact(corpusMetaKey)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalCorpusMeta(data)
}
