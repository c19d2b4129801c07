package mock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// ComposeAnswerFunc is called by ComposeAnswer if set.
	// If nil, uses default deterministic behavior.
	ComposeAnswerFunc func(ctx context.Context, question string, contextDocs []string) (string, error)

	callCount atomic.Int64
}

// NewMockAnswerer creates a mock answerer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnswerer().
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// ComposeAnswer returns a deterministic answer referencing the question
// and how many context documents were supplied.
func (m *MockAnswerer) ComposeAnswer(ctx context.Context, question string, contextDocs []string) (string, error) {
	m.callCount.Add(1)

	if m.ComposeAnswerFunc != nil {
		return m.ComposeAnswerFunc(ctx, question, contextDocs)
	}

	if len(contextDocs) == 0 {
		return "", errors.New("no context documents provided")
	}

	return fmt.Sprintf("mock answer to %q based on %d documents", question, len(contextDocs)), nil
}

// CallCount returns the number of times ComposeAnswer was called.
func (m *MockAnswerer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount.Store(0)
	m.ComposeAnswerFunc = nil
}
