// Copyright 2025 Poiesic Systems
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


// Package storage provides the storage abstraction layer for cinevec.
//
// This package defines repository interfaces that decouple storage implementation
// from the import and ranking logic. Two backends implement them: an embedded
// BadgerDB store (storage/badger) and a PostgreSQL store (storage/postgres)
// that uses the netflix_titles and netflix_embeddings tables.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to keep callers off backend specifics:
//
//	sources, err := badger.NewSourceRepository(backend)  // storage.SourceRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
//   - SourceRepository: count, page, upsert and clear for catalog records
//   - EmbeddingRepository: the same for embeddings, plus a key-ordered scan
//   - CheckpointRepository: resumable batch-run progress
//
// Every table supports the same four operations: count, fetch a page ordered
// by primary key, upsert a batch keyed on show_id, and clear.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines. Concurrent upserts of the
// same key are last-write-wins.
package storage
