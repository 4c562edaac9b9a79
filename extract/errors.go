package extract

import "errors"

var (
	// ErrSessionRequired is returned when a storage session is not provided.
	ErrSessionRequired = errors.New("storage session required")

	// ErrExtractorRequired is returned when an entity extractor is not provided.
	ErrExtractorRequired = errors.New("entity extractor required")

	// ErrSourceRequired is returned when a message source is not provided.
	ErrSourceRequired = errors.New("message source required")

	// ErrInvalidMaxAttempts is returned when RetryWithBackoff is called with
	// a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
