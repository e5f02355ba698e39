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

import (
	"fmt"
	"strings"
)

// ValidateNote validates a Note according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - PageNumbers, when present, must all be positive
//
// NOT validated:
//   - Empty PageNumbers (a note without page attribution is legal)
func ValidateNote(note *Note) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if strings.TrimSpace(note.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyNoteText)
	}

	for _, page := range note.PageNumbers {
		if page < 1 {
			return fmt.Errorf("%w: %w (got %d)", ErrInvalidNote, ErrInvalidPageNumber, page)
		}
	}

	return nil
}

// ValidateDocumentReference validates a DocumentReference before a pipeline run.
//
// Validation rules:
//   - SourceURL must not be empty
//   - ExcludedPages must all be positive (they are 1-indexed)
func ValidateDocumentReference(ref *DocumentReference) error {
	if ref == nil {
		return fmt.Errorf("%w: document reference is nil", ErrConfiguration)
	}

	if strings.TrimSpace(ref.SourceURL) == "" {
		return fmt.Errorf("%w: source URL is required", ErrConfiguration)
	}

	for _, page := range ref.ExcludedPages {
		if page < 1 {
			return fmt.Errorf("%w: excluded pages are 1-indexed (got %d)", ErrInvalidPageNumber, page)
		}
	}

	return nil
}
