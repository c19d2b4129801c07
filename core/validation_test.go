package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCompanyProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *CompanyProfile
		wantErr error
	}{
		{
			name:    "valid minimal profile",
			profile: &CompanyProfile{Name: "Acme"},
		},
		{
			name: "valid full profile",
			profile: &CompanyProfile{
				Name:          "Acme",
				Domain:        "acme.com",
				Industry:      "Manufacturing",
				Size:          "51-200",
				Location:      "Toledo, OH",
				EmployeeCount: 120,
			},
		},
		{
			name:    "nil profile",
			profile: nil,
			wantErr: ErrInvalidCompanyProfile,
		},
		{
			name:    "empty name",
			profile: &CompanyProfile{Industry: "Manufacturing"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "negative employee count",
			profile: &CompanyProfile{Name: "Acme", EmployeeCount: -1},
			wantErr: ErrNegativeEmployeeCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCompanyProfile(tt.profile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContactProfile(t *testing.T) {
	tests := []struct {
		name    string
		contact *ContactProfile
		wantErr error
	}{
		{
			name:    "valid contact",
			contact: &ContactProfile{Name: "Jane Doe", Company: "Acme"},
		},
		{
			name:    "nil contact",
			contact: nil,
			wantErr: ErrInvalidContactProfile,
		},
		{
			name:    "empty name",
			contact: &ContactProfile{Company: "Acme"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty company",
			contact: &ContactProfile{Name: "Jane Doe"},
			wantErr: ErrEmptyCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContactProfile(tt.contact)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Id:       DocumentID(DocumentTypeCompany, "Acme"),
				Type:     DocumentTypeCompany,
				Name:     "Acme",
				Contents: "Company: Acme. Industry: Manufacturing",
			},
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "invalid type",
			doc:     &Document{Type: DocumentType(0), Name: "Acme", Contents: "x"},
			wantErr: ErrInvalidDocumentType,
		},
		{
			name:    "empty name",
			doc:     &Document{Type: DocumentTypeCompany, Contents: "x"},
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty contents",
			doc:     &Document{Type: DocumentTypeContact, Name: "Jane"},
			wantErr: ErrEmptyContents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
