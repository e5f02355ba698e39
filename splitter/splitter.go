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


package splitter

import (
	"fmt"
	"strings"

	"github.com/poiesic/papernotes/core"
)

const (
	// DefaultChunkSize is the default maximum chunk length in bytes.
	DefaultChunkSize = 300

	// DefaultChunkOverlap is the default number of trailing bytes shared
	// between adjacent chunks.
	DefaultChunkOverlap = 30
)

// Splitter windows text into chunks of at most chunkSize bytes, with
// chunkOverlap bytes carried over between adjacent chunks.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Splitter. chunkOverlap must be non-negative and strictly
// less than chunkSize; anything else is core.ErrConfiguration.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size must be positive (got %d)", core.ErrConfiguration, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap cannot be negative (got %d)", core.ErrConfiguration, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			core.ErrConfiguration, chunkOverlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split windows every segment into chunks, preserving segment order.
// Each chunk carries a copy of its segment's metadata; the segment's page
// number, when known, is recorded under "page_number".
func (s *Splitter) Split(segments []core.Segment) []core.Chunk {
	var chunks []core.Chunk
	for _, segment := range segments {
		for _, window := range s.SplitText(segment.Content) {
			chunks = append(chunks, core.Chunk{
				Content:  window,
				Metadata: chunkMetadata(segment),
			})
		}
	}
	return chunks
}

// SplitText windows a single text. Windows are contiguous slices of the
// input: each window after the first starts exactly chunkOverlap bytes
// before the end of its predecessor, so concatenating windows minus the
// overlap reconstructs the input. Windows break at whitespace where
// possible; a single word longer than chunkSize is emitted whole as the
// only case where a window may exceed chunkSize.
func (s *Splitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	var windows []string
	start := 0
	for {
		if len(text)-start <= s.chunkSize {
			windows = append(windows, text[start:])
			return windows
		}

		end := start + s.chunkSize
		cut := lastBoundary(text, start, end)
		if cut <= start+s.chunkOverlap {
			// No boundary beyond the carried-over prefix: a single word
			// spans the whole window. Emit it whole.
			cut = nextBoundary(text, end)
		}

		windows = append(windows, text[start:cut])
		if cut >= len(text) {
			return windows
		}

		next := cut - s.chunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
}

// FullText concatenates segment contents in reading order, separated by
// blank lines, for model consumption.
func FullText(segments []core.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, segment.Content)
	}
	return strings.Join(parts, "\n\n")
}

func chunkMetadata(segment core.Segment) map[string]any {
	meta := make(map[string]any, len(segment.Metadata)+1)
	for k, v := range segment.Metadata {
		meta[k] = v
	}
	if segment.Page > 0 {
		meta["page_number"] = segment.Page
	}
	return meta
}

// lastBoundary returns the index of the byte after the last whitespace run
// start in text[start:end], or start when the window holds no whitespace.
func lastBoundary(text string, start, end int) int {
	for i := end - 1; i > start; i-- {
		if isSpace(text[i]) {
			return i
		}
	}
	return start
}

// nextBoundary returns the index of the first whitespace byte at or after
// from, or len(text) when none remains.
func nextBoundary(text string, from int) int {
	for i := from; i < len(text); i++ {
		if isSpace(text[i]) {
			return i
		}
	}
	return len(text)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
