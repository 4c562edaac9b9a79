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


// Package openai implements the ner.Extractor interface using the langchaingo
// library against any OpenAI-compatible chat completion API.
//
// The extractor prompts the model for strict JSON and tolerates the usual
// model misbehavior: markdown code fences around the payload, trailing
// commas, and occasional malformed responses (retried a bounded number of
// times).
package openai
