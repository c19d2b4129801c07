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


// Package ai provides abstractions for AI services used in prospect.
//
// This package defines interfaces for text embeddings, competitor
// discovery, and grounded answer generation. Core orchestration and
// retrieval logic depend on these abstractions rather than concrete
// implementations, so providers can be swapped without touching the
// pipeline.
//
// The package includes two implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     via langchaingo
//   - ai/mock: deterministic test doubles for unit testing without
//     external services
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
package ai
