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


package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexey523/libratom/core"
)

// Message is one message read from an archive.
//
// Identifier is archive-native and stable across reads of the same file. For
// mbox files it is the 1-based position of the message in the file.
type Message struct {
	Identifier  int64
	Subject     string
	Body        string
	Attachments []core.AttachmentMetadata

	// Raw holds the message as stored, headers included, suitable for
	// writing out as an .eml file.
	Raw []byte
}

// Text returns the string handed to entity extraction: the subject line
// followed by the plain-text body.
func (m *Message) Text() string {
	switch {
	case m.Subject == "":
		return m.Body
	case m.Body == "":
		return m.Subject
	default:
		return m.Subject + "\n\n" + m.Body
	}
}

// Archive is a read-only view over one mail archive file.
//
// Implementations are not safe for concurrent use; the pipeline reads each
// archive from a single goroutine.
type Archive interface {
	// Messages invokes fn for every message in archive order. Iteration
	// stops early when fn returns false or ctx is cancelled.
	Messages(ctx context.Context, fn func(Message) bool) error

	// MessageByID returns the message with the given archive-native
	// identifier, or ErrMessageNotFound.
	MessageByID(id int64) (*Message, error)

	// MessageCount returns the number of messages in the archive.
	MessageCount() (int, error)

	Close() error
}

// Open opens the archive at path, dispatching on the file extension.
// Unrecognized extensions yield ErrUnsupportedFileType.
func Open(path string) (Archive, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mbox":
		return OpenMbox(path)
	case ".pst", ".ost":
		// Recognized but not readable yet. Kept as a distinct case so the
		// error names the format instead of claiming it is unknown.
		return nil, fmt.Errorf("%w: no reader available for %s archives",
			ErrUnsupportedFileType, strings.ToLower(filepath.Ext(path)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}
}
