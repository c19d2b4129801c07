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


// Package enrich provides company and contact data acquisition.
//
// The package defines the Fetcher interface that the research pipeline
// depends on, plus helpers for normalizing fetched profiles. The
// enrich/apollo sub-package implements Fetcher against the Apollo.io
// B2B data API; tests use function-field fakes instead.
//
// Fetcher distinguishes two failure classes: ErrCompanyNotFound means
// the upstream source has no record of the company, while any other
// error indicates a transport or service fault. Callers fail a research
// task differently depending on which one they get.
package enrich
