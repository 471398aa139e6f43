// Copyright 2026 Lindenhart Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package freshet

import (
	"context"
	"log/slog"

	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/corpus"
	"github.com/lindenhart/freshet/index"
	"github.com/lindenhart/freshet/pipeline"
	"github.com/lindenhart/freshet/retrieval"
	"github.com/lindenhart/freshet/storage"
	"github.com/lindenhart/freshet/storage/badger"
)

// Engine bundles the persistent stores and hands out the offline builder and
// the online query pipeline over them.
type Engine struct {
	backend *badger.Backend
	docs    storage.DocumentStore
	idx     storage.IndexStore
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory opens the backing store in memory, without touching disk.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open opens or creates an engine at filePath.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Engine{
		backend: backend,
		docs:    badger.NewDocumentStore(backend),
		idx:     badger.NewIndexStore(backend),
		logger:  options.logger,
	}, nil
}

func (e *Engine) Close() error {
	if err := e.docs.Close(); err != nil {
		e.logger.Error("error closing document store", "err", err)
		return err
	}
	if err := e.idx.Close(); err != nil {
		e.logger.Error("error closing index store", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) DocumentStore() storage.DocumentStore {
	return e.docs
}

func (e *Engine) IndexStore() storage.IndexStore {
	return e.idx
}

// PutDocuments validates and stores documents. Records without an ID get a
// content-derived one.
func (e *Engine) PutDocuments(ctx context.Context, docs []core.Document) error {
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = core.IDFromContent(docs[i].Text)
		}
		if err := core.ValidateDocument(&docs[i]); err != nil {
			return err
		}
	}
	return e.docs.PutDocuments(ctx, docs...)
}

// BuildIndex builds the retrieval index over every stored document and
// persists the artifacts.
func (e *Engine) BuildIndex(ctx context.Context, opts ...index.Option) error {
	docs, err := e.docs.ListDocuments(ctx)
	if err != nil {
		return err
	}
	return index.NewBuilder(opts...).BuildAndSave(ctx, docs, e.idx)
}

// NewRetriever loads the persisted index artifacts into a query-ready
// retriever.
func (e *Engine) NewRetriever(ctx context.Context, opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(ctx, e.idx, opts...)
}

// NewPipeline assembles the full query pipeline: a retriever over the
// persisted index and a corpus store over the stored documents.
func (e *Engine) NewPipeline(ctx context.Context, cfg pipeline.Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	r, err := e.NewRetriever(ctx)
	if err != nil {
		return nil, err
	}
	store, err := corpus.LoadStore(ctx, e.docs)
	if err != nil {
		return nil, err
	}
	return pipeline.New(r, store, cfg, opts...)
}
