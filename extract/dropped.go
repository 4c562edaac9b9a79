package extract

import (
	"context"
	"time"
)

// DroppedMessage identifies one message whose records were lost when a
// commit batch was dropped.
type DroppedMessage struct {
	Filepath   string `json:"filepath"`
	Identifier int64  `json:"identifier"`
}

// DroppedBatch summarizes a commit batch discarded after a commit failure:
// which messages it covered and how many records of each kind went with it.
type DroppedBatch struct {
	Time            time.Time        `json:"time"`
	Reason          string           `json:"reason"`
	Messages        []DroppedMessage `json:"messages"`
	AttachmentCount int              `json:"attachment_count"`
	EntityCount     int              `json:"entity_count"`
}

// BatchRecorder receives dropped batches. The baseline pipeline policy is to
// discard a batch silently after rollback; wiring a recorder (see
// WithDeadLetter) preserves at least a durable trace of what was lost.
type BatchRecorder interface {
	Record(ctx context.Context, batch DroppedBatch) error
}

// batchState tracks what has been staged on the session since the last
// successful commit, so a dropped batch can be described.
type batchState struct {
	messages    []DroppedMessage
	attachments int
	entities    int
}

func (b *batchState) addMessage(filepath string, identifier int64) {
	b.messages = append(b.messages, DroppedMessage{Filepath: filepath, Identifier: identifier})
}

func (b *batchState) reset() {
	b.messages = nil
	b.attachments = 0
	b.entities = 0
}
