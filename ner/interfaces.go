package ner

import "context"

// Extractor recognizes named entities in text.
// Implementations must be thread-safe for concurrent use: a single Extractor
// instance is shared by every worker in an extraction run.
type Extractor interface {
	// Extract analyzes text and returns the named-entity spans found in it,
	// in document order. Returns an empty slice if no entities are found.
	// Returns an error if the analysis itself fails.
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// Entity is one recognized span of text with its category label.
type Entity struct {
	// Text is the exact span as it appears in the source text.
	Text string

	// Label is the entity category, e.g. "PERSON", "ORG", "GPE", "DATE".
	Label string
}
