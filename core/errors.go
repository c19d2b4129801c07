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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCompanyProfile indicates a CompanyProfile failed validation.
	ErrInvalidCompanyProfile = errors.New("invalid company profile")

	// ErrInvalidContactProfile indicates a ContactProfile failed validation.
	ErrInvalidContactProfile = errors.New("invalid contact profile")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyName indicates a required Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCompany indicates the contact's Company field is empty.
	ErrEmptyCompany = errors.New("company reference cannot be empty")

	// ErrEmptyContents indicates the document's Contents field is empty.
	ErrEmptyContents = errors.New("contents cannot be empty")

	// ErrInvalidDocumentType indicates an invalid DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrNegativeEmployeeCount indicates a negative employee count.
	ErrNegativeEmployeeCount = errors.New("employee count cannot be negative")
)
