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


package openai

// repairJSON attempts to fix common JSON formatting issues in LLM responses.
// It removes trailing commas before closing braces and brackets, skipping
// anything inside string literals.
func repairJSON(s string) string {
	runes := []rune(s)
	fixed := make([]rune, 0, len(runes))

	inString := false
	escaped := false

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inString {
			fixed = append(fixed, ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			fixed = append(fixed, ch)
		case ',':
			// Look ahead past whitespace; drop the comma if a closer follows
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\n' || runes[j] == '\t' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
			fixed = append(fixed, ch)
		default:
			fixed = append(fixed, ch)
		}
	}

	return string(fixed)
}
