package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSONTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing comma in object",
			input: `{"text": "Alice", "label": "PERSON",}`,
			want:  `{"text": "Alice", "label": "PERSON"}`,
		},
		{
			name:  "trailing comma in array",
			input: `{"entities": [{"text": "Bob", "label": "PERSON"},]}`,
			want:  `{"entities": [{"text": "Bob", "label": "PERSON"}]}`,
		},
		{
			name: "trailing comma before newline",
			input: `{"entities": [],
}`,
			want: `{"entities": []
}`,
		},
		{
			name:  "comma inside string untouched",
			input: `{"text": "Raleigh, NC", "label": "GPE"}`,
			want:  `{"text": "Raleigh, NC", "label": "GPE"}`,
		},
		{
			name:  "escaped quote inside string",
			input: `{"text": "the \"deal\",", "label": "ORG"}`,
			want:  `{"text": "the \"deal\",", "label": "ORG"}`,
		},
		{
			name:  "already valid",
			input: `{"entities": []}`,
			want:  `{"entities": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "repaired JSON should parse")
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	payload := `{"entities": [{"text": "Enron", "label": "ORG"}]}`

	assert.Equal(t, payload, stripCodeFences("```json\n"+payload+"\n```"))
	assert.Equal(t, payload, stripCodeFences("```\n"+payload+"\n```"))
	assert.Equal(t, payload, stripCodeFences(payload))
}

func TestScrubString(t *testing.T) {
	// Control characters dropped, printable text and punctuation kept
	assert.Equal(t, "Hello, world.", scrubString("\x00Hello, world.\r \x07"))

	// Newlines and tabs survive
	got := scrubString("line one\n\tline two")
	assert.Equal(t, "line one\n\tline two", got)
}

func TestAnalysisUnmarshal(t *testing.T) {
	var result analysis
	raw := `{"entities": [{"text": "Ken Lay", "label": "PERSON"}, {"text": "Houston", "label": "GPE"}]}`

	require.NoError(t, json.Unmarshal([]byte(raw), &result))
	require.Len(t, result.Entities, 2)
	assert.Equal(t, "Ken Lay", result.Entities[0].Text)
	assert.Equal(t, "GPE", result.Entities[1].Label)
}
