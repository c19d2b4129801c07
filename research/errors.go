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


package research

import "errors"

var (
	// ErrTaskNotFound indicates the registry has no task with the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrIllegalTransition indicates an attempted stage transition that
	// is not on the legal pipeline path.
	ErrIllegalTransition = errors.New("illegal stage transition")

	// ErrTaskTerminal indicates an attempted mutation of a task that has
	// already reached a terminal stage.
	ErrTaskTerminal = errors.New("task already terminal")

	// ErrDiscoveryFailed indicates competitor discovery failed; the
	// launch is aborted with no tasks created.
	ErrDiscoveryFailed = errors.New("competitor discovery failed")

	// ErrEmptySeedCompany indicates a launch was requested without a
	// seed company name.
	ErrEmptySeedCompany = errors.New("seed company name required")
)
