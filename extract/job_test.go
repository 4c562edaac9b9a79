package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexey523/libratom/core"
	"github.com/alexey523/libratom/ner"
	"github.com/alexey523/libratom/ner/mock"
)

func TestProcessMessageSuccess(t *testing.T) {
	extractor := mock.NewExtractor()
	extractor.ExtractFunc = func(ctx context.Context, text string) ([]ner.Entity, error) {
		return []ner.Entity{
			{Text: "Alice", Label: "PERSON"},
			{Text: "Enron", Label: "ORG"},
		}, nil
	}

	job := Job{
		Filepath:  "/mail/a.mbox",
		MessageID: 3,
		Body:      "Alice works at Enron",
		Attachments: []core.AttachmentMetadata{
			{Name: "doc.pdf", MimeType: "application/pdf", Size: 10},
		},
	}

	out := ProcessMessage(context.Background(), job, extractor, 1_000_000)

	require.False(t, out.Failed())
	assert.Equal(t, "/mail/a.mbox", out.Filepath)
	assert.Equal(t, int64(3), out.MessageID)
	assert.Len(t, out.Entities, 2)
	assert.Len(t, out.Attachments, 1)
	assert.False(t, out.ProcessingStart.IsZero())
	assert.False(t, out.ProcessingEnd.IsZero())
	assert.False(t, out.ProcessingEnd.Before(out.ProcessingStart))
}

func TestProcessMessageExtractorError(t *testing.T) {
	extractor := mock.NewExtractor()
	extractor.ExtractFunc = func(ctx context.Context, text string) ([]ner.Entity, error) {
		return nil, errors.New("model blew up")
	}

	out := ProcessMessage(context.Background(), Job{Filepath: "/mail/a.mbox", MessageID: 1}, extractor, 0)

	require.True(t, out.Failed())
	assert.Equal(t, "model blew up", out.Err)
	assert.Empty(t, out.Entities)
	// Identifying fields survive for the skip log
	assert.Equal(t, "/mail/a.mbox", out.Filepath)
	assert.Equal(t, int64(1), out.MessageID)
}

func TestProcessMessageRecoversPanic(t *testing.T) {
	extractor := mock.NewExtractor()
	extractor.ExtractFunc = func(ctx context.Context, text string) ([]ner.Entity, error) {
		panic("index out of range")
	}

	var out Outcome
	require.NotPanics(t, func() {
		out = ProcessMessage(context.Background(), Job{MessageID: 2}, extractor, 0)
	})

	require.True(t, out.Failed())
	assert.Contains(t, out.Err, "index out of range")
}

func TestProcessMessageMaxTextLength(t *testing.T) {
	extractor := mock.NewExtractor()

	out := ProcessMessage(context.Background(), Job{Body: "0123456789"}, extractor, 5)

	require.True(t, out.Failed())
	assert.Contains(t, out.Err, "exceeds maximum")
	// The analysis capability was never invoked
	assert.Equal(t, 0, extractor.CallCount())
}

func TestProcessMessageEmptyErrorString(t *testing.T) {
	extractor := mock.NewExtractor()
	extractor.ExtractFunc = func(ctx context.Context, text string) ([]ner.Entity, error) {
		return nil, errors.New("")
	}

	out := ProcessMessage(context.Background(), Job{}, extractor, 0)

	// The failure variant must be distinguishable even for an empty error
	require.True(t, out.Failed())
	assert.Equal(t, "analysis failed", out.Err)
}
