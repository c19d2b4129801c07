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
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/prospect/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Discoverer implements ai.Discoverer using OpenAI-compatible chat APIs.
type Discoverer struct {
	client llms.Model
	logger *slog.Logger
}

// competitorList is the wrapper structure for the LLM's JSON response.
type competitorList struct {
	Competitors []string `json:"competitors"`
}

// placeholderName matches LLM filler output that is not a real company,
// such as "Company Name 1" or "Competitor A".
var placeholderName = regexp.MustCompile(`(?i)^(company\s+name\s*\d*|competitor\s+[a-z]|example\s+company.*|placeholder.*|dummy.*|test\s+company.*|mock\s+company.*)$`)

// newDiscoverer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newDiscoverer(config *ai.Config) (*Discoverer, error) {
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

	return &Discoverer{
		client: client,
		logger: slog.Default().With("component", "openai-discoverer"),
	}, nil
}

// NewDiscoverer creates a new competitor discoverer using the provided configuration.
//
// Returns ai.Discoverer interface to enforce abstraction.
func NewDiscoverer(config *ai.Config) (ai.Discoverer, error) {
	return newDiscoverer(config)
}

// DiscoverCompetitors asks the LLM for direct competitors of the seed
// company. The result never contains the seed itself, placeholders, or
// duplicates, and holds at most max names. An empty result is not an
// error; it means research proceeds for the seed alone.
func (d *Discoverer) DiscoverCompetitors(ctx context.Context, seedCompany string, max int) ([]string, error) {
	if max <= 0 {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildDiscoveryPrompt(max)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(seedCompany),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result competitorList
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.3), llms.WithJSONMode())
		if err != nil {
			d.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			d.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			d.logger.Warn("error parsing discovery response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		d.logger.Error("failed to parse discovery response after retries", "err", lastErr)
		return nil, lastErr
	}

	names := cleanCompetitorNames(result.Competitors, seedCompany, max)

	d.logger.Debug("discovered competitors",
		"seed", seedCompany,
		"raw", len(result.Competitors),
		"kept", len(names))

	return names, nil
}

// cleanCompetitorNames strips numbering and placeholders, removes the
// seed company and duplicates case-insensitively, and applies the limit.
func cleanCompetitorNames(raw []string, seedCompany string, max int) []string {
	seen := make(map[string]bool, len(raw))
	seen[strings.ToLower(strings.TrimSpace(seedCompany))] = true

	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		name = strings.TrimLeft(name, "-* ")
		name = stripListNumber(name)
		if name == "" || placeholderName.MatchString(name) {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		names = append(names, name)
		if len(names) >= max {
			break
		}
	}
	return names
}

var listNumber = regexp.MustCompile(`^\d+[.)]\s*`)

// stripListNumber removes leading "1. " style numbering the model
// sometimes adds despite JSON mode.
func stripListNumber(s string) string {
	return strings.TrimSpace(listNumber.ReplaceAllString(s, ""))
}
