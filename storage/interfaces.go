package storage

import (
	"context"

	"github.com/poiesic/prospect/core"
)

// CompanyRepository provides operations for managing company profiles.
// Implementations must be thread-safe and support concurrent access.
type CompanyRepository interface {
	// SaveCompany stores a company profile, replacing any existing profile
	// with the same name. Sets InsertedAt on first write and always
	// refreshes UpdatedAt.
	SaveCompany(ctx context.Context, profile *core.CompanyProfile) error

	// GetCompany retrieves a company profile by name (case-insensitive).
	// Returns ErrNotFound if no profile exists.
	GetCompany(ctx context.Context, name string) (*core.CompanyProfile, error)

	// GetAllCompanies retrieves every stored company profile,
	// ordered by name.
	GetAllCompanies(ctx context.Context) ([]*core.CompanyProfile, error)

	// DeleteCompany removes a company profile by name.
	// Returns ErrNotFound if no profile exists.
	DeleteCompany(ctx context.Context, name string) error

	// Close closes the repository and releases resources.
	Close() error
}

// ContactRepository provides operations for managing contact profiles.
type ContactRepository interface {
	// SaveContacts stores one or more contacts, replacing existing records
	// with the same company+name key.
	SaveContacts(ctx context.Context, contacts ...*core.ContactProfile) error

	// GetContactsByCompany retrieves all contacts for a company
	// (case-insensitive), ordered by name.
	GetContactsByCompany(ctx context.Context, company string) ([]*core.ContactProfile, error)

	// CountContacts returns the total number of stored contacts.
	CountContacts(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// VectorRepository is the vector index: it stores embedded documents and
// supports nearest-neighbor retrieval by cosine similarity.
type VectorRepository interface {
	// UpsertDocument stores a document under its content-derived ID.
	// Re-upserting the same entity overwrites the prior record.
	UpsertDocument(ctx context.Context, doc *core.Document) error

	// FindSimilar finds documents similar to the given vector.
	// Returns documents with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error)

	// CountDocuments returns the number of documents in the index.
	CountDocuments(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// HealthChecker is implemented by repositories backed by an external
// service that can report reachability. Local repositories do not
// implement it and are assumed healthy.
type HealthChecker interface {
	// Healthy returns nil when the backing service is reachable.
	Healthy(ctx context.Context) error
}
