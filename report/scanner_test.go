package report

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexey523/libratom/storage"
	"github.com/alexey523/libratom/storage/sqlite"
)

const twoMessageMbox = `From alice@example.com Thu Jan  1 00:00:00 2026
From: Alice <alice@example.com>
Subject: First

Hello.

From bob@example.com Thu Jan  1 00:00:01 2026
From: Bob <bob@example.com>
Subject: Second

World.
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSession(t *testing.T) storage.Session {
	t.Helper()

	session, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ratom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestScanPersistsReports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mbox")
	require.NoError(t, os.WriteFile(path, []byte(twoMessageMbox), 0o644))

	session := openTestSession(t)
	ctx := context.Background()

	reports, err := Scan(ctx, session, []string{path}, testLogger())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	rpt := reports[0]
	assert.Equal(t, path, rpt.Path)
	assert.Equal(t, "sample.mbox", rpt.Name)
	assert.Equal(t, int64(len(twoMessageMbox)), rpt.Size)
	assert.Equal(t, 2, rpt.MsgCount)

	md5Sum := md5.Sum([]byte(twoMessageMbox))
	sha256Sum := sha256.Sum256([]byte(twoMessageMbox))
	assert.Equal(t, hex.EncodeToString(md5Sum[:]), rpt.MD5)
	assert.Equal(t, hex.EncodeToString(sha256Sum[:]), rpt.SHA256)

	persisted, err := session.FileReportByPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, rpt.MD5, persisted.MD5)
	assert.NotZero(t, persisted.ID)
}

func TestScanSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.mbox")
	require.NoError(t, os.WriteFile(good, []byte(twoMessageMbox), 0o644))

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("plain text"), 0o644))

	missing := filepath.Join(dir, "missing.mbox")

	session := openTestSession(t)
	reports, err := Scan(context.Background(), session, []string{missing, notes, good}, testLogger())
	require.NoError(t, err)

	require.Len(t, reports, 1, "unreadable and unsupported files get no report")
	assert.Equal(t, good, reports[0].Path)
}

func TestScanEmptyPathList(t *testing.T) {
	session := openTestSession(t)

	reports, err := Scan(context.Background(), session, nil, testLogger())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestScanCancelledContext(t *testing.T) {
	session := openTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, session, []string{"whatever.mbox"}, testLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
