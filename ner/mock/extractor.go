package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/alexey523/libratom/ner"
)

// Extractor is a test double for ner.Extractor.
// It allows custom behavior injection via function fields and is safe for
// concurrent use, matching the contract real extractors must satisfy.
type Extractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default capitalized-word extraction.
	ExtractFunc func(ctx context.Context, text string) ([]ner.Entity, error)

	mu        sync.Mutex
	callCount int
}

// NewExtractor creates a mock extractor with default behavior.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns mock entities for text.
// Default behavior: every capitalized word becomes a PERSON entity, which
// gives tests a deterministic entity count per input.
func (m *Extractor) Extract(ctx context.Context, text string) ([]ner.Entity, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}

	entities := []ner.Entity{}
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		if word[0] >= 'A' && word[0] <= 'Z' {
			entities = append(entities, ner.Entity{Text: word, Label: "PERSON"})
		}
	}

	return entities, nil
}

// CallCount returns the number of times Extract was called.
func (m *Extractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *Extractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFunc = nil
}
