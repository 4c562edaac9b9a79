// Copyright 2026 The libratom Authors
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
	"strings"

	"github.com/alexey523/libratom/ner"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Extractor implements ner.Extractor using OpenAI-compatible chat APIs.
type Extractor struct {
	client llms.Model
	logger *slog.Logger
}

// span is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// analysis is the wrapper structure for the LLM's JSON response.
type analysis struct {
	Entities []span `json:"entities"`
}

// newExtractor is an internal constructor that returns the concrete type.
func newExtractor(config *ner.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new entity extractor using the provided configuration.
//
// Returns the ner.Extractor interface to enforce abstraction.
func NewExtractor(config *ner.Config) (ner.Extractor, error) {
	return newExtractor(config)
}

// Extract recognizes named entities in text using an LLM.
func (e *Extractor) Extract(ctx context.Context, text string) ([]ner.Entity, error) {
	text = scrubString(text)
	if text == "" {
		return []ner.Entity{}, nil
	}

	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result analysis
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ner.Entity{}, nil
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse model response after retries", "err", lastErr)
		return nil, lastErr
	}

	entities := make([]ner.Entity, 0, len(result.Entities))
	for _, s := range result.Entities {
		if s.Text == "" || s.Label == "" {
			continue
		}
		entities = append(entities, ner.Entity{
			Text:  s.Text,
			Label: s.Label,
		})
	}

	return entities, nil
}

// stripCodeFences removes markdown code fences the model may wrap around its
// JSON payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
