package core

import "time"

// FileReport is the per-archive-file record that messages, attachments and
// entities link back to. It is populated by the report scanner before an
// extraction run; the extraction pipeline only ever looks it up by path.
type FileReport struct {
	ID       int64
	Path     string
	Name     string
	Size     int64
	MD5      string
	SHA256   string
	MsgCount int
}

// Message represents one successfully processed archive message.
// FileReport is nil when the message could not be linked to a known file.
type Message struct {
	ID              int64
	Identifier      int64 // archive-native message identifier
	ProcessingStart time.Time
	ProcessingEnd   time.Time
	FileReport      *FileReport
}

// AttachmentMetadata describes one attachment as reported by the message
// source. It carries everything the pipeline needs so workers never have to
// re-open the archive.
type AttachmentMetadata struct {
	Name     string
	MimeType string
	Size     int64
}

// Attachment is a persisted attachment record, linked to its owning message
// and, when resolved, the owning file report.
type Attachment struct {
	ID         int64
	Name       string
	MimeType   string
	Size       int64
	Message    *Message
	FileReport *FileReport
}

// Entity is one extracted named-entity span. Entities are buffered in memory
// by the pipeline and persisted in commit batches.
type Entity struct {
	ID         int64
	Text       string
	Label      string
	Filepath   string
	Message    *Message
	FileReport *FileReport
}
