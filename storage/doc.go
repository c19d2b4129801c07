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


// Package storage provides the storage abstraction layer for prospect.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different backends
// (BadgerDB, Qdrant for vectors, in-memory, etc.) to be used
// interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - CompanyRepository: structured company profiles, keyed by name
//   - ContactRepository: structured contacts, keyed by company+name
//   - VectorRepository: the vector index of embedded documents with
//     nearest-neighbor retrieval
//
// Constructors in backend packages return interface types to enforce
// abstraction and keep backends swappable.
//
// # Thread Safety
//
// All repository implementations must be thread-safe: the embedding stage
// of every research pipeline writes to the vector index concurrently, and
// writes are keyed by entity identity so last-writer-wins is the conflict
// policy.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
