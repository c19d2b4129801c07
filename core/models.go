package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from entity content so that re-writing the same
// entity always lands on the same key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CompanyID returns the storage ID for a company profile.
// Company names are unique keys within a research run; the ID is
// case-insensitive so "Acme" and "acme" resolve to the same record.
func CompanyID(name string) ID {
	return IDFromContent("company:" + strings.ToLower(strings.TrimSpace(name)))
}

// ContactID returns the storage ID for a contact, keyed by company and name.
func ContactID(company, name string) ID {
	return IDFromContent("contact:" + strings.ToLower(strings.TrimSpace(company)) +
		":" + strings.ToLower(strings.TrimSpace(name)))
}

// CompanyProfile holds the enriched profile of a single company.
// Profiles are written once per successful fetch and replaced wholesale
// on re-fetch; they are never mutated field by field.
type CompanyProfile struct {
	Name          string
	Domain        string
	Description   string
	Industry      string
	Size          string // size bucket, e.g. "51-200"
	Location      string
	Founded       string
	Funding       string
	EmployeeCount int
	LinkedInURL   string
	Website       string
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// ContactProfile holds an enriched contact at a company.
// Department and Seniority are derived from the title when the data
// provider does not supply them.
type ContactProfile struct {
	Name        string
	Title       string
	Company     string // company reference, by name
	Email       string
	Phone       string
	Location    string
	Department  string
	Seniority   string
	LinkedInURL string
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// DocumentType identifies the kind of entity a vector document describes.
type DocumentType int

const (
	// DocumentTypeCompany marks a document embedded from a company profile.
	DocumentTypeCompany DocumentType = iota + 1
	// DocumentTypeContact marks a document embedded from a contact profile.
	DocumentTypeContact
)

// String returns the source label for the document type.
func (t DocumentType) String() string {
	switch t {
	case DocumentTypeCompany:
		return "company"
	case DocumentTypeContact:
		return "contact"
	default:
		return "unknown"
	}
}

// Document is one embedded record in the vector index: the source text,
// its vector, and the identity of the entity it was built from.
// Identity is derived from type+name, so re-embedding the same entity
// overwrites the previous record.
type Document struct {
	Id         ID
	Type       DocumentType
	Name       string
	Contents   string    // source text the vector was computed from
	Vector     []float32 // embedding vector for semantic search
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// DocumentID returns the content-derived ID for a document of the given
// type and entity name.
func DocumentID(docType DocumentType, name string) ID {
	return IDFromContent(docType.String() + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// Source returns the citation label for the document, e.g. "company:Acme".
func (d *Document) Source() string {
	return d.Type.String() + ":" + d.Name
}

// SimilarityMatch represents a document match from vector similarity search.
type SimilarityMatch struct {
	Document *Document
	Score    float32
}
