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


// Package storage provides the storage abstraction layer for freshet.
//
// It defines repository interfaces that decouple the query pipeline and the
// offline index builder from the concrete backend. Two kinds of data are
// persisted:
//
//   - Documents: the prepared corpus records ({id, text, timestamp})
//   - Index artifacts: the BM25 posting statistics, the TF-IDF/SVD projection,
//     and the row-aligned corpus metadata produced by the offline builder
//
// Artifacts are written once by the builder and are strictly read-only at
// query time, which makes a loaded index safe to share across concurrent
// in-flight queries.
//
// Constructors on backend packages return these interfaces rather than
// concrete types so tests can substitute in-memory implementations:
//
//	docs, idx, backend, err := badger.NewMemoryStores()
//
// All repository implementations must be thread-safe. All methods accept
// context.Context for cancellation.
package storage
