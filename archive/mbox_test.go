package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMbox = `From alice@example.com Thu Jan  1 00:00:00 2026
From: Alice <alice@example.com>
Subject: Quarterly review
Content-Type: text/plain

Barack Obama visited Chicago.
>From the archives.

From bob@example.com Thu Jan  1 00:00:01 2026
From: Bob <bob@example.com>
Subject: Attachments
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="BOUNDARY"

--BOUNDARY
Content-Type: text/plain

See attached report.
--BOUNDARY
Content-Type: application/pdf
Content-Disposition: attachment; filename="report.pdf"

%PDF-1.4 fake content
--BOUNDARY--
`

func writeSampleMbox(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.mbox")
	require.NoError(t, os.WriteFile(path, []byte(sampleMbox), 0o644))

	return path
}

func TestMboxMessages(t *testing.T) {
	arc, err := OpenMbox(writeSampleMbox(t))
	require.NoError(t, err)
	defer arc.Close()

	var messages []Message
	err = arc.Messages(context.Background(), func(m Message) bool {
		messages = append(messages, m)
		return true
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	first := messages[0]
	assert.Equal(t, int64(1), first.Identifier)
	assert.Equal(t, "Quarterly review", first.Subject)
	assert.Contains(t, first.Body, "Barack Obama visited Chicago.")
	assert.Contains(t, first.Body, "From the archives.", "mboxrd quoting is undone")
	assert.NotContains(t, first.Body, ">From")
	assert.Empty(t, first.Attachments)

	second := messages[1]
	assert.Equal(t, int64(2), second.Identifier)
	assert.Equal(t, "Attachments", second.Subject)
	assert.Contains(t, second.Body, "See attached report.")
	require.Len(t, second.Attachments, 1)
	assert.Equal(t, "report.pdf", second.Attachments[0].Name)
	assert.Equal(t, "application/pdf", second.Attachments[0].MimeType)
	assert.Equal(t, int64(len("%PDF-1.4 fake content")), second.Attachments[0].Size)
}

func TestMboxMessagesEarlyStop(t *testing.T) {
	arc, err := OpenMbox(writeSampleMbox(t))
	require.NoError(t, err)

	seen := 0
	err = arc.Messages(context.Background(), func(Message) bool {
		seen++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestMboxMessagesCancelledContext(t *testing.T) {
	arc, err := OpenMbox(writeSampleMbox(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seen := 0
	err = arc.Messages(ctx, func(Message) bool {
		seen++
		return true
	})
	require.NoError(t, err)
	assert.Zero(t, seen)
}

func TestMboxMessageByID(t *testing.T) {
	arc, err := OpenMbox(writeSampleMbox(t))
	require.NoError(t, err)

	msg, err := arc.MessageByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Attachments", msg.Subject)
	assert.Contains(t, string(msg.Raw), "From: Bob <bob@example.com>")

	_, err = arc.MessageByID(99)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMboxMessageCount(t *testing.T) {
	arc, err := OpenMbox(writeSampleMbox(t))
	require.NoError(t, err)

	count, err := arc.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMboxMalformedMessageStillYielded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mbox")
	content := "From x Thu Jan  1 00:00:00 2026\nnot a header line at all\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	arc, err := OpenMbox(path)
	require.NoError(t, err)

	var messages []Message
	require.NoError(t, arc.Messages(context.Background(), func(m Message) bool {
		messages = append(messages, m)
		return true
	}))
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Body, "not a header line at all")
}

func TestOpenDispatch(t *testing.T) {
	path := writeSampleMbox(t)

	arc, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, arc.Close())

	_, err = Open("mail.pst")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = Open("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestOpenMboxMissingFile(t *testing.T) {
	_, err := OpenMbox(filepath.Join(t.TempDir(), "missing.mbox"))
	assert.Error(t, err)
}

func TestMessageText(t *testing.T) {
	m := Message{Subject: "Hello", Body: "World"}
	assert.Equal(t, "Hello\n\nWorld", m.Text())

	assert.Equal(t, "World", (&Message{Body: "World"}).Text())
	assert.Equal(t, "Hello", (&Message{Subject: "Hello"}).Text())
}
