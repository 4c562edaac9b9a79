// Package storage defines the relational session consumed by the extraction
// pipeline.
//
// A Session is a staging area with transactional commit semantics: Add*
// methods stage records in memory without touching the store, Commit makes
// everything staged since the previous Commit or Rollback durable in one
// atomic transaction, and Rollback discards the staged set. The session is
// owned exclusively by the pipeline's controller goroutine; workers never
// touch it, so implementations are not required to be thread-safe.
package storage
