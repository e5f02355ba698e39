// Copyright 2025 Poiesic Systems
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

// Error taxonomy shared across the pipeline. Stage code wraps these with
// fmt.Errorf("%w: ...") so callers can classify failures with errors.Is.
var (
	// ErrConfiguration indicates missing or invalid configuration.
	// Raised before any I/O is attempted.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrFetch indicates a transport-level failure retrieving the source document.
	ErrFetch = errors.New("document fetch failed")

	// ErrMalformedDocument indicates the input bytes are not a valid PDF,
	// or a page index was out of range during pruning.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrExtraction indicates the model gave no structured payload, or its
	// payload could not be parsed into notes.
	ErrExtraction = errors.New("note extraction failed")

	// ErrInvalidNote indicates a Note failed validation.
	ErrInvalidNote = errors.New("invalid note")

	// ErrEmptyNoteText indicates a note with empty text.
	ErrEmptyNoteText = errors.New("note text cannot be empty")

	// ErrInvalidPageNumber indicates a non-positive page number.
	ErrInvalidPageNumber = errors.New("page numbers must be positive")
)
