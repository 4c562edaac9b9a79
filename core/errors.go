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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyPath indicates a FileReport has no path.
	ErrEmptyPath = errors.New("file report path cannot be empty")

	// ErrEmptyEntityText indicates an Entity has no text span.
	ErrEmptyEntityText = errors.New("entity text cannot be empty")

	// ErrEmptyEntityLabel indicates an Entity has no label.
	ErrEmptyEntityLabel = errors.New("entity label cannot be empty")

	// ErrMessageRequired indicates a record is missing its owning message link.
	ErrMessageRequired = errors.New("owning message required")
)
