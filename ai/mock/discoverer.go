package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockDiscoverer is a test double for ai.Discoverer.
// It allows custom behavior injection via function fields.
type MockDiscoverer struct {
	// DiscoverCompetitorsFunc is called by DiscoverCompetitors if set.
	// If nil, uses default fixed competitor names.
	DiscoverCompetitorsFunc func(ctx context.Context, seedCompany string, maxCompetitors int) ([]string, error)

	callCount atomic.Int64
}

// NewMockDiscoverer creates a mock discoverer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockDiscoverer().
func NewMockDiscoverer() *MockDiscoverer {
	return &MockDiscoverer{}
}

// DiscoverCompetitors returns mock competitor names derived from the seed.
// Default behavior: returns up to maxCompetitors fixed names, never
// including the seed itself.
func (m *MockDiscoverer) DiscoverCompetitors(ctx context.Context, seedCompany string, maxCompetitors int) ([]string, error) {
	m.callCount.Add(1)

	if m.DiscoverCompetitorsFunc != nil {
		return m.DiscoverCompetitorsFunc(ctx, seedCompany, maxCompetitors)
	}

	defaults := []string{"Globex", "Initech", "Umbrella Corp", "Stark Industries", "Wayne Enterprises"}

	competitors := make([]string, 0, maxCompetitors)
	for _, name := range defaults {
		if strings.EqualFold(name, seedCompany) {
			continue
		}
		competitors = append(competitors, name)
		if len(competitors) >= maxCompetitors {
			break
		}
	}
	return competitors, nil
}

// CallCount returns the number of times DiscoverCompetitors was called.
func (m *MockDiscoverer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockDiscoverer) Reset() {
	m.callCount.Store(0)
	m.DiscoverCompetitorsFunc = nil
}
