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


package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alexey523/libratom/core"
	"github.com/alexey523/libratom/storage"
)

// Session implements storage.Session on a SQLite database.
// Add* methods stage records in memory; Commit writes the whole staged set
// in a single transaction.
type Session struct {
	db     *sql.DB
	closed bool

	pendingReports     []*core.FileReport
	pendingMessages    []*core.Message
	pendingAttachments []*core.Attachment
	pendingEntities    []*core.Entity
}

var _ storage.Session = (*Session)(nil)

// Open creates a Session backed by the SQLite database at dbPath, creating
// the file and schema as needed. The special path ":memory:" opens a
// throwaway in-memory database.
func Open(ctx context.Context, dbPath string) (*Session, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// An in-memory database exists per connection; pin the pool to one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Session{db: db}, nil
}

// AddFileReport stages a file report for the next commit.
func (s *Session) AddFileReport(report *core.FileReport) {
	s.pendingReports = append(s.pendingReports, report)
}

// AddMessage stages a message for the next commit.
func (s *Session) AddMessage(message *core.Message) {
	s.pendingMessages = append(s.pendingMessages, message)
}

// AddAttachments stages attachments for the next commit.
func (s *Session) AddAttachments(attachments []*core.Attachment) {
	s.pendingAttachments = append(s.pendingAttachments, attachments...)
}

// AddEntities stages entities for the next commit.
func (s *Session) AddEntities(entities []*core.Entity) {
	s.pendingEntities = append(s.pendingEntities, entities...)
}

// FileReports returns all persisted file reports.
func (s *Session) FileReports(ctx context.Context) ([]*core.FileReport, error) {
	if s.closed {
		return nil, storage.ErrSessionClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, name, size, md5, sha256, msg_count FROM file_reports`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*core.FileReport
	for rows.Next() {
		report := &core.FileReport{}
		if err := rows.Scan(&report.ID, &report.Path, &report.Name,
			&report.Size, &report.MD5, &report.SHA256, &report.MsgCount); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// FileReportByPath returns the persisted file report with the given path.
func (s *Session) FileReportByPath(ctx context.Context, path string) (*core.FileReport, error) {
	if s.closed {
		return nil, storage.ErrSessionClosed
	}

	report := &core.FileReport{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, name, size, md5, sha256, msg_count FROM file_reports WHERE path = ?`,
		path).Scan(&report.ID, &report.Path, &report.Name,
		&report.Size, &report.MD5, &report.SHA256, &report.MsgCount)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Commit persists everything staged since the previous Commit or Rollback in
// one transaction. Messages are inserted first so attachment and entity rows
// can resolve their message_id from the staged link. On error nothing is
// persisted and the staged set is left intact.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return storage.ErrSessionClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.flush(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.clearPending()
	return nil
}

func (s *Session) flush(ctx context.Context, tx *sql.Tx) error {
	for _, report := range s.pendingReports {
		if err := report.Validate(); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO file_reports (path, name, size, md5, sha256, msg_count) VALUES (?, ?, ?, ?, ?, ?)`,
			report.Path, report.Name, report.Size, report.MD5, report.SHA256, report.MsgCount)
		if err != nil {
			return fmt.Errorf("failed to insert file report %s: %w", report.Path, err)
		}
		if report.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	for _, message := range s.pendingMessages {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (identifier, processing_start_time, processing_end_time, file_report_id) VALUES (?, ?, ?, ?)`,
			message.Identifier, message.ProcessingStart, message.ProcessingEnd,
			reportID(message.FileReport))
		if err != nil {
			return fmt.Errorf("failed to insert message %d: %w", message.Identifier, err)
		}
		if message.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	for _, attachment := range s.pendingAttachments {
		if err := attachment.Validate(); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO attachments (name, mime_type, size, message_id, file_report_id) VALUES (?, ?, ?, ?, ?)`,
			attachment.Name, attachment.MimeType, attachment.Size,
			attachment.Message.ID, reportID(attachment.FileReport))
		if err != nil {
			return fmt.Errorf("failed to insert attachment %s: %w", attachment.Name, err)
		}
		if attachment.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	for _, entity := range s.pendingEntities {
		if err := entity.Validate(); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO entities (text, label, filepath, message_id, file_report_id) VALUES (?, ?, ?, ?, ?)`,
			entity.Text, entity.Label, entity.Filepath,
			entity.Message.ID, reportID(entity.FileReport))
		if err != nil {
			return fmt.Errorf("failed to insert entity: %w", err)
		}
		if entity.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	return nil
}

// Rollback discards the staged set without touching the store.
func (s *Session) Rollback() {
	s.clearPending()
}

// Close discards any staged records and closes the database.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.clearPending()
	return s.db.Close()
}

func (s *Session) clearPending() {
	s.pendingReports = nil
	s.pendingMessages = nil
	s.pendingAttachments = nil
	s.pendingEntities = nil
}

// reportID maps an optional file report link to a nullable column value.
func reportID(report *core.FileReport) any {
	if report == nil {
		return nil
	}
	return report.ID
}
