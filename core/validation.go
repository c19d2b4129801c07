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

import "fmt"

// ValidateCompanyProfile validates a CompanyProfile according to domain rules.
//
// Validation rules:
//   - Name must not be empty (it is the storage key)
//   - EmployeeCount must not be negative
//
// NOT validated (best-effort provider data):
//   - Domain, Industry, Size, Location, Founded, Funding, URLs
func ValidateCompanyProfile(profile *CompanyProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidCompanyProfile)
	}

	if profile.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCompanyProfile, ErrEmptyName)
	}

	if profile.EmployeeCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCompanyProfile, ErrNegativeEmployeeCount)
	}

	return nil
}

// ValidateContactProfile validates a ContactProfile according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Company must not be empty (contacts are keyed by company+name)
func ValidateContactProfile(contact *ContactProfile) error {
	if contact == nil {
		return fmt.Errorf("%w: contact is nil", ErrInvalidContactProfile)
	}

	if contact.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContactProfile, ErrEmptyName)
	}

	if contact.Company == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContactProfile, ErrEmptyCompany)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Type must be a known DocumentType
//   - Name must not be empty
//   - Contents must not be empty
//
// NOT validated:
//   - Vector (may be empty until the embedding stage runs)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyName)
	}

	if doc.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContents)
	}

	return nil
}

// ValidateDocumentType checks that the value is a known DocumentType.
func ValidateDocumentType(t DocumentType) error {
	switch t {
	case DocumentTypeCompany, DocumentTypeContact:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDocumentType, t)
	}
}
