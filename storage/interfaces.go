package storage

import (
	"context"

	"github.com/alexey523/libratom/core"
)

// Session provides staged, transactional access to the relational store.
// Records added through the Add* methods are held in memory until Commit,
// which persists everything staged since the previous successful Commit or
// Rollback as one atomic transaction.
type Session interface {
	// AddFileReport stages a file report for the next commit.
	AddFileReport(report *core.FileReport)

	// AddMessage stages a message for the next commit.
	// The message's FileReport link, when set, must already be persisted.
	AddMessage(message *core.Message)

	// AddAttachments stages attachments for the next commit.
	// Each attachment's Message link must be staged or persisted.
	AddAttachments(attachments []*core.Attachment)

	// AddEntities stages entities for the next commit.
	// Each entity's Message link must be staged or persisted.
	AddEntities(entities []*core.Entity)

	// FileReports returns all persisted file reports.
	FileReports(ctx context.Context) ([]*core.FileReport, error)

	// FileReportByPath returns the persisted file report with the given path.
	// Returns ErrNotFound if no report matches.
	FileReportByPath(ctx context.Context, path string) (*core.FileReport, error)

	// Commit atomically persists everything staged since the previous Commit
	// or Rollback, assigning record IDs and resolving staged links. On error
	// nothing is persisted and the staged set is left intact for Rollback.
	Commit(ctx context.Context) error

	// Rollback discards the staged set without touching the store.
	Rollback()

	// Close releases the underlying store. Staged records are discarded.
	Close() error
}
