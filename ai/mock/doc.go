// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Discoverer,
// ai.Answerer, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockDiscoverer := mock.NewMockDiscoverer()
//	mockDiscoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
//	    return []string{"Globex", "Initech"}, nil
//	}
//
//	// Check call counts
//	count := mockDiscoverer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockDiscoverer: Returns a fixed set of plausible competitor names
//   - MockAnswerer: Echoes the question with the document count
//   - MockProvider: Aggregates the three mock services
package mock
