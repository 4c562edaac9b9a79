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


package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/alexey523/libratom/core"
	"github.com/alexey523/libratom/ner"
)

// Job is the unit of work dispatched to a worker: one message's path,
// identifier, body text and attachment metadata. The metadata is bundled up
// front so workers never have to re-open the archive.
type Job struct {
	Filepath    string
	MessageID   int64
	Body        string
	Attachments []core.AttachmentMetadata
}

// Source produces message jobs lazily, in per-file order. It is finite,
// single-pass and not restartable mid-stream.
type Source interface {
	// ForEach invokes fn for every message job. Iteration stops early when
	// fn returns false. Returns an error only when the source itself fails;
	// per-message problems are the job function's business.
	ForEach(ctx context.Context, fn func(Job) bool) error
}

// Outcome is a job's processing result: either a success record carrying the
// extracted entities, or a failure variant carrying only the identifying
// fields plus an error description.
type Outcome struct {
	Filepath        string
	MessageID       int64
	ProcessingStart time.Time
	ProcessingEnd   time.Time
	Attachments     []core.AttachmentMetadata
	Entities        []ner.Entity

	// Err is non-empty for the failure variant.
	Err string
}

// Failed reports whether this outcome is the failure variant.
func (o *Outcome) Failed() bool {
	return o.Err != ""
}

// ProcessMessage is the job function executed inside a worker. It runs the
// message body through the extractor and brackets the analysis call with
// wall-clock timestamps.
//
// It always returns: analysis errors, over-length bodies and even panics are
// converted into the failure variant, so a single malformed message cannot
// take down a worker or the run.
func ProcessMessage(ctx context.Context, job Job, extractor ner.Extractor, maxTextLength int) (out Outcome) {
	out = Outcome{
		Filepath:        job.Filepath,
		MessageID:       job.MessageID,
		ProcessingStart: time.Now().UTC(),
		Attachments:     job.Attachments,
	}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Sprintf("panic during analysis: %v", r)
		}
	}()

	if maxTextLength > 0 && len(job.Body) > maxTextLength {
		out.Err = fmt.Sprintf("text of length %d exceeds maximum of %d", len(job.Body), maxTextLength)
		return out
	}

	entities, err := extractor.Extract(ctx, job.Body)
	if err != nil {
		out.Err = err.Error()
		if out.Err == "" {
			out.Err = "analysis failed"
		}
		return out
	}

	out.Entities = entities
	out.ProcessingEnd = time.Now().UTC()

	return out
}
