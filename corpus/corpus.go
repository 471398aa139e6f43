// Package corpus provides the in-memory corpus store the query pipeline reads
// document texts and timestamps from. The store is loaded once, fully into
// memory keyed by id, and is immutable afterwards, so a single store is safe
// for concurrent queries.
package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/storage"
)

// Store holds the full corpus keyed by document id.
type Store struct {
	byID map[string]core.Document
}

// record is the line-delimited JSON shape of one corpus entry.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// FromDocuments builds a Store from already-validated documents.
// Returns ErrEmptyCorpus when no documents are given.
func FromDocuments(docs []core.Document) (*Store, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	byID := make(map[string]core.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	return &Store{byID: byID}, nil
}

// LoadJSONL loads a corpus from a line-delimited JSON file where each record
// is {id, text, timestamp}. Blank lines are skipped; records without an id
// get a deterministic content-based one. A missing or empty file is a fatal
// construction error, not a query-time condition.
func LoadJSONL(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	byID := make(map[string]core.Document)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		doc := core.Document{ID: rec.ID, Text: rec.Text, Timestamp: rec.Timestamp}
		if doc.ID == "" {
			doc.ID = core.IDFromContent(doc.Text)
		}
		if err := core.ValidateDocument(&doc); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		byID[doc.ID] = doc
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(byID) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, path)
	}

	slog.Debug("corpus loaded", "path", path, "documents", len(byID))
	return &Store{byID: byID}, nil
}

// LoadStore loads the full corpus from a document store.
func LoadStore(ctx context.Context, docs storage.DocumentStore) (*Store, error) {
	all, err := docs.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return FromDocuments(all)
}

// GetText returns the text of the document with the given id.
// Returns ErrNotFound for unknown ids.
func (s *Store) GetText(id string) (string, error) {
	doc, ok := s.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc.Text, nil
}

// GetTimestamp returns the ISO-8601 timestamp of the document with the given
// id. Returns ErrNotFound for unknown ids.
func (s *Store) GetTimestamp(id string) (string, error) {
	doc, ok := s.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc.Timestamp, nil
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	return len(s.byID)
}

// Documents returns all documents in unspecified order.
func (s *Store) Documents() []core.Document {
	out := make([]core.Document, 0, len(s.byID))
	for _, doc := range s.byID {
		out = append(out, doc)
	}
	return out
}
