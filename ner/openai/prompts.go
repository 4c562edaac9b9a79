package openai

import (
	"fmt"
	"strings"
)

// entityLabels are the categories the model is allowed to emit. They follow
// the conventional NER tag set used by mainstream English models.
var entityLabels = []string{
	"PERSON",
	"NORP",
	"FAC",
	"ORG",
	"GPE",
	"LOC",
	"PRODUCT",
	"EVENT",
	"WORK_OF_ART",
	"LAW",
	"LANGUAGE",
	"DATE",
	"TIME",
	"PERCENT",
	"MONEY",
	"QUANTITY",
	"ORDINAL",
	"CARDINAL",
}

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "label": {
            "type": "string"
          }
        },
        "required": ["text", "label"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Identify every named entity in the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The text field must be the exact span as it appears in the input, unmodified.
- The label field must match exactly one of the listed values: %s.
- List entities in the order they appear in the text. Repeated mentions are repeated entries.
- Include only entities that literally appear in the text. Do not hallucinate.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildSystemPrompt assembles the extraction system prompt with the schema
// and the allowed label set.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema, strings.Join(entityLabels, ", "))
}
