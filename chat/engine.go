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


// Package chat answers natural-language questions strictly from
// retrieved vector index evidence.
//
// The engine embeds the question, retrieves the most similar stored
// documents above a similarity floor, and composes an answer grounded
// in those documents, citing the entities it used. When nothing
// relevant is stored it returns a fixed no-information response instead
// of fabricating an answer.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/prospect/ai"
	"github.com/poiesic/prospect/storage"
)

// NoInformationAnswer is returned verbatim when retrieval finds nothing
// above the similarity floor. Answers are never synthesized outside of
// retrieved context.
const NoInformationAnswer = "I don't have enough information to answer that question."

const (
	// DefaultSimilarityFloor is the minimum similarity a stored document
	// needs to count as evidence.
	DefaultSimilarityFloor = 0.30

	// DefaultTopK is how many documents are retrieved as context.
	DefaultTopK = 5
)

// Answer is the response to one question: the answer text and the
// stored entities it was grounded in.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Engine is the retrieval/chat engine.
type Engine struct {
	embedder        ai.Embedder
	answerer        ai.Answerer
	vectors         storage.VectorRepository
	similarityFloor float32
	topK            int
	logger          *slog.Logger
}

// EngineOption configures an Engine during construction.
type EngineOption func(*Engine)

// WithSimilarityFloor sets the minimum similarity for retrieved
// evidence. Matches below the floor are treated as no information.
func WithSimilarityFloor(floor float32) EngineOption {
	return func(e *Engine) {
		if floor > 0 {
			e.similarityFloor = floor
		}
	}
}

// WithTopK sets how many documents are retrieved as context.
func WithTopK(k int) EngineOption {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// NewEngine creates a chat engine over the given embedder, answerer,
// and vector index.
func NewEngine(embedder ai.Embedder, answerer ai.Answerer, vectors storage.VectorRepository, opts ...EngineOption) *Engine {
	e := &Engine{
		embedder:        embedder,
		answerer:        answerer,
		vectors:         vectors,
		similarityFloor: DefaultSimilarityFloor,
		topK:            DefaultTopK,
		logger:          slog.Default().With("component", "chat-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ask embeds the question, retrieves the most similar stored documents,
// and composes a grounded answer citing its sources. An empty index or
// no match above the similarity floor yields NoInformationAnswer with
// no sources. If the question cannot be embedded, the call fails with
// ErrEmbeddingUnavailable.
func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	queryVector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		e.logger.Error("question embedding failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	matches, err := e.vectors.FindSimilar(ctx, queryVector, e.similarityFloor, e.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	if len(matches) == 0 {
		e.logger.Debug("no evidence above similarity floor", "floor", e.similarityFloor)
		return &Answer{Text: NoInformationAnswer, Sources: []string{}}, nil
	}

	contextDocs := make([]string, 0, len(matches))
	sources := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		contextDocs = append(contextDocs, match.Document.Contents)

		source := match.Document.Source()
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}

	text, err := e.answerer.ComposeAnswer(ctx, question, contextDocs)
	if err != nil {
		return nil, fmt.Errorf("compose answer: %w", err)
	}

	e.logger.Debug("answered question",
		"evidence", len(matches),
		"sources", len(sources),
		"top_score", matches[0].Score)

	return &Answer{Text: text, Sources: sources}, nil
}
