package archive

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexey523/libratom/extract"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileSourceStreamsJobs(t *testing.T) {
	path := writeSampleMbox(t)
	source := NewFileSource([]string{path}, discardLogger())

	var jobs []extract.Job
	err := source.ForEach(context.Background(), func(j extract.Job) bool {
		jobs = append(jobs, j)
		return true
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, path, jobs[0].Filepath)
	assert.Equal(t, int64(1), jobs[0].MessageID)
	assert.Contains(t, jobs[0].Body, "Quarterly review", "subject feeds into the analyzed text")
	assert.Contains(t, jobs[0].Body, "Barack Obama visited Chicago.")

	require.Len(t, jobs[1].Attachments, 1)
	assert.Equal(t, "report.pdf", jobs[1].Attachments[0].Name)
}

func TestFileSourceSkipsUnreadableFiles(t *testing.T) {
	good := writeSampleMbox(t)
	missing := filepath.Join(t.TempDir(), "missing.mbox")
	source := NewFileSource([]string{missing, good}, discardLogger())

	count := 0
	err := source.ForEach(context.Background(), func(extract.Job) bool {
		count++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the readable file is still processed")
}

func TestFileSourceEarlyStop(t *testing.T) {
	path := writeSampleMbox(t)
	source := NewFileSource([]string{path, path}, discardLogger())

	count := 0
	err := source.ForEach(context.Background(), func(extract.Job) bool {
		count++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileSourceCancelledContext(t *testing.T) {
	source := NewFileSource([]string{writeSampleMbox(t)}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := source.ForEach(ctx, func(extract.Job) bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	b := filepath.Join(root, "b.mbox")
	a := filepath.Join(sub, "a.mbox")
	for _, p := range []string{b, a, filepath.Join(root, "notes.txt")} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	paths, err := CollectFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, paths, "sorted, archive extensions only")
}

func TestCollectFilesSingleFile(t *testing.T) {
	path := writeSampleMbox(t)

	paths, err := CollectFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}
