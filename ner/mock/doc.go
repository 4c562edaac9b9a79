// Package mock provides a test double for the ner.Extractor interface.
package mock
