package extract

import (
	"fmt"
	"runtime"
)

// Config holds the tunables for an extraction run.
type Config struct {
	// Workers is the number of parallel workers in the pool.
	Workers int

	// ChunkSize is the number of message jobs submitted to the pool per
	// worker round. A throughput/latency tunable.
	ChunkSize int

	// CommitBatchSize is the buffered-entity count that triggers a commit.
	CommitBatchSize int

	// ProgressStep is how often, in processed messages, the progress
	// callback is invoked.
	ProgressStep int

	// MaxTextLength is the longest message body, in bytes, the analysis
	// capability will accept. Longer messages fail analysis and are skipped.
	MaxTextLength int
}

// DefaultConfig returns a Config with the stock tunables.
func DefaultConfig() *Config {
	return &Config{
		Workers:         runtime.NumCPU(),
		ChunkSize:       100,
		CommitBatchSize: 10_000,
		ProgressStep:    10,
		MaxTextLength:   1_000_000,
	}
}

// Validate checks that every tunable is positive.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0, got %d", c.Workers)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be greater than 0, got %d", c.ChunkSize)
	}
	if c.CommitBatchSize <= 0 {
		return fmt.Errorf("commit batch size must be greater than 0, got %d", c.CommitBatchSize)
	}
	if c.ProgressStep <= 0 {
		return fmt.Errorf("progress step must be greater than 0, got %d", c.ProgressStep)
	}
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("max text length must be greater than 0, got %d", c.MaxTextLength)
	}
	return nil
}
