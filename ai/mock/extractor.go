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


package mock

import (
	"context"
	"strings"

	"github.com/poiesic/papernotes/core"
)

// MockNoteExtractor is a test double for ai.NoteExtractor.
// It allows custom behavior injection via function fields.
type MockNoteExtractor struct {
	// ExtractNotesFunc is called by ExtractNotes if set.
	// If nil, uses default behavior.
	ExtractNotesFunc func(ctx context.Context, paperText string) ([]core.Note, error)

	callCount int
}

// NewMockNoteExtractor creates a mock note extractor with default behavior.
func NewMockNoteExtractor() *MockNoteExtractor {
	return &MockNoteExtractor{}
}

// ExtractNotes derives simple mock notes from the paper text.
// Default behavior: one note per sentence, no page attribution.
func (m *MockNoteExtractor) ExtractNotes(ctx context.Context, paperText string) ([]core.Note, error) {
	m.callCount++

	if m.ExtractNotesFunc != nil {
		return m.ExtractNotesFunc(ctx, paperText)
	}

	sentences := strings.Split(paperText, ".")
	notes := make([]core.Note, 0, len(sentences))
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if len(notes) >= 5 {
			break
		}
		notes = append(notes, core.Note{Text: sentence, PageNumbers: []int{}})
	}
	return notes, nil
}

// CallCount returns the number of times ExtractNotes was called.
func (m *MockNoteExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockNoteExtractor) Reset() {
	m.callCount = 0
	m.ExtractNotesFunc = nil
}
