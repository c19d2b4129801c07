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


package enrich

import "errors"

var (
	// ErrCompanyNotFound indicates the data source has no record of the
	// requested company. This is distinct from a transport failure: the
	// request succeeded but the company does not exist upstream.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrUpstreamUnavailable indicates the data source could not be
	// reached or returned a server error.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")

	// ErrRateLimited indicates the data source rejected the request due
	// to rate limiting.
	ErrRateLimited = errors.New("rate limited by data source")
)
