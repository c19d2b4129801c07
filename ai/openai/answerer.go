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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/prospect/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
// It composes answers strictly from the retrieved context documents it
// is given; it is never called without context.
type Answerer struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(tokenOrNone(config.APIKey)),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Answerer{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new answer composer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// ComposeAnswer generates a natural-language answer to the question
// from the supplied context documents.
func (a *Answerer) ComposeAnswer(ctx context.Context, question string, contextDocs []string) (string, error) {
	if len(contextDocs) == 0 {
		return "", errors.New("no context documents provided")
	}

	a.logger.Debug("composing answer", "question_length", len(question), "docs", len(contextDocs))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(answerSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnswerPrompt(question, contextDocs)),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.3))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		a.logger.Warn("no choices returned from model")
		return "", errors.New("model returned no answer")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
