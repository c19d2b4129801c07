package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Discoverer finds candidate competitor company names for a seed company.
// Implementations must be thread-safe for concurrent use.
type Discoverer interface {
	// DiscoverCompetitors returns up to maxCompetitors candidate names for
	// the seed company. An empty slice is a valid, non-error result: it
	// simply means no competitors were identified.
	DiscoverCompetitors(ctx context.Context, seedCompany string, maxCompetitors int) ([]string, error)
}

// Answerer composes a natural-language answer to a question, grounded
// strictly in the supplied context documents.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// ComposeAnswer generates an answer to the question using only the
	// information contained in contextDocs. It must not be called with an
	// empty contextDocs slice; the caller is responsible for deciding
	// that no evidence means no answer.
	ComposeAnswer(ctx context.Context, question string, contextDocs []string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder,
// Discoverer, and Answerer instances, ensuring they share configuration
// and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Discoverer returns the competitor discovery service.
	Discoverer() Discoverer

	// Answerer returns the grounded answer generation service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
