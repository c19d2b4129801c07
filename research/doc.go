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


// Package research implements the competitive research task engine.
//
// An Orchestrator accepts a seed company, discovers its competitors,
// and fans out one research Task per company. Each Task is driven
// through its pipeline stages by a Runner under a bounded worker pool:
// fetch the company profile, fetch contacts, then embed both into the
// vector index. The Registry tracks every Task's progress and exposes
// consistent snapshots to concurrent readers.
//
// Failure isolation is the central design rule: one company's failure
// never affects sibling tasks. A task fails outright only when its
// company profile cannot be fetched or a stage exceeds its time budget.
// Missing contacts or embeddings degrade the result but still complete
// the task.
package research
