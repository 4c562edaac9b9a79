// Package ner defines the named-entity recognition capability consumed by
// the extraction pipeline.
//
// The pipeline treats entity recognition as a black box behind the Extractor
// interface: text goes in, a sequence of (span text, label) pairs comes out.
// Implementations are loaded once per run and shared read-only across all
// workers, so they must be safe for concurrent use.
//
// The openai subpackage provides an extractor backed by any OpenAI-compatible
// chat API; the mock subpackage provides a deterministic test double.
package ner
