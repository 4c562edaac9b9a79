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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"strings"

	"github.com/alexey523/libratom/core"
)

var fromLine = []byte("From ")

// MboxArchive reads messages from an mbox file. Each call that touches
// messages re-reads the file from the start, so the archive holds no open
// file handle between calls.
type MboxArchive struct {
	path string
}

// OpenMbox opens the mbox file at path. The file is only statted here;
// message parsing happens lazily during iteration.
func OpenMbox(path string) (*MboxArchive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbox file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open mbox file: %s is a directory", path)
	}

	return &MboxArchive{path: path}, nil
}

// Messages iterates the archive in file order.
func (a *MboxArchive) Messages(ctx context.Context, fn func(Message) bool) error {
	return a.scan(func(id int64, raw []byte) bool {
		if ctx.Err() != nil {
			return false
		}
		return fn(parseMessage(id, raw))
	})
}

// MessageByID scans from the start of the file until it reaches id.
func (a *MboxArchive) MessageByID(id int64) (*Message, error) {
	var found *Message

	err := a.scan(func(current int64, raw []byte) bool {
		if current != id {
			return true
		}
		m := parseMessage(current, raw)
		found = &m
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %d in %s", ErrMessageNotFound, id, a.path)
	}

	return found, nil
}

// MessageCount counts the message separators in the file.
func (a *MboxArchive) MessageCount() (int, error) {
	count := 0
	err := a.scan(func(int64, []byte) bool {
		count++
		return true
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (a *MboxArchive) Close() error {
	return nil
}

// scan splits the file on "From " separator lines and hands each raw message
// (headers plus body, separator excluded) to fn with its 1-based identifier.
// Lines quoted per mboxrd (">From ") are unquoted by one level.
func (a *MboxArchive) scan(fn func(id int64, raw []byte) bool) error {
	f, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("failed to open mbox file: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)

	var (
		current bytes.Buffer
		id      int64
		started bool
	)

	flush := func() bool {
		if !started {
			return true
		}
		id++
		raw := make([]byte, current.Len())
		copy(raw, current.Bytes())
		current.Reset()
		return fn(id, raw)
	}

	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			switch {
			case bytes.HasPrefix(line, fromLine):
				if !flush() {
					return nil
				}
				started = true
			case started:
				if bytes.HasPrefix(line, []byte(">")) && bytes.HasPrefix(bytes.TrimLeft(line, ">"), fromLine) {
					line = line[1:]
				}
				current.Write(line)
			}
			// Content before the first separator is not a message.
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read mbox file: %w", readErr)
		}
	}

	flush()
	return nil
}

// parseMessage turns one raw mbox entry into a Message. A message whose
// headers cannot be parsed still comes back usable, with the raw text as the
// body, so one malformed entry does not hide the rest of the file.
func parseMessage(id int64, raw []byte) Message {
	out := Message{Identifier: id, Raw: raw}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		out.Body = string(raw)
		return out
	}

	out.Subject = msg.Header.Get("Subject")

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, _ := io.ReadAll(msg.Body)
		out.Body = string(body)
		return out
	}

	out.Body, out.Attachments = readParts(msg.Body, params["boundary"])
	return out
}

// readParts walks a multipart body, concatenating text parts into the body
// and recording every named part as attachment metadata. Parts that fail to
// read truncate the walk; whatever was collected so far still counts.
func readParts(r io.Reader, boundary string) (string, []core.AttachmentMetadata) {
	var (
		bodyParts   []string
		attachments []core.AttachmentMetadata
	)

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		data, err := io.ReadAll(part)
		if err != nil {
			break
		}

		if name := part.FileName(); name != "" {
			attachments = append(attachments, core.AttachmentMetadata{
				Name:     name,
				MimeType: partType,
				Size:     int64(len(data)),
			})
			continue
		}

		if partType == "" || partType == "text/plain" {
			bodyParts = append(bodyParts, string(data))
		}
	}

	return strings.Join(bodyParts, "\n"), attachments
}
