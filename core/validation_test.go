package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileReportValidate(t *testing.T) {
	tests := []struct {
		name    string
		report  FileReport
		wantErr error
	}{
		{
			name:   "valid report",
			report: FileReport{Path: "/mail/a.mbox", Name: "a.mbox"},
		},
		{
			name:    "missing path",
			report:  FileReport{Name: "a.mbox"},
			wantErr: ErrEmptyPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAttachmentValidate(t *testing.T) {
	msg := &Message{Identifier: 1}

	assert.NoError(t, (&Attachment{Name: "a.pdf", Message: msg}).Validate())
	assert.ErrorIs(t, (&Attachment{Name: "a.pdf"}).Validate(), ErrMessageRequired)
}

func TestEntityValidate(t *testing.T) {
	msg := &Message{Identifier: 1}

	tests := []struct {
		name    string
		entity  Entity
		wantErr error
	}{
		{
			name:   "valid entity",
			entity: Entity{Text: "Alice", Label: "PERSON", Message: msg},
		},
		{
			name:    "missing text",
			entity:  Entity{Label: "PERSON", Message: msg},
			wantErr: ErrEmptyEntityText,
		},
		{
			name:    "missing label",
			entity:  Entity{Text: "Alice", Message: msg},
			wantErr: ErrEmptyEntityLabel,
		},
		{
			name:    "missing message",
			entity:  Entity{Text: "Alice", Label: "PERSON"},
			wantErr: ErrMessageRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
