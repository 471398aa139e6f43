package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
)

// DocumentStore implements storage.DocumentStore for BadgerDB.
type DocumentStore struct {
	backend *Backend
}

var _ storage.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new DocumentStore over the backend.
func NewDocumentStore(backend *Backend) *DocumentStore {
	return &DocumentStore{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (s *DocumentStore) Close() error {
	return nil
}

// PutDocuments stores one or more documents keyed by ID.
func (s *DocumentStore) PutDocuments(ctx context.Context, docs ...core.Document) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for i := range docs {
			key := makeDocumentKey(docs[i].ID)
			value := storage.MarshalDocument(&docs[i])
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (core.Document, error) {
	var doc core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			d, err := storage.UnmarshalDocument(val)
			if err != nil {
				return err
			}
			doc = *d
			return nil
		})
	}, false)
	return doc, err
}

// ListDocuments returns all stored documents in key order.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]core.Document, error) {
	var docs []core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				d, err := storage.UnmarshalDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, *d)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return docs, err
}

// CountDocuments returns the number of stored documents.
func (s *DocumentStore) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
