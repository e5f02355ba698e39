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


package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
)

// isolateArray reduces a raw tool-call argument string to the substring
// between its first '[' and last ']', inclusive. Models sometimes wrap the
// arguments in prose or an enclosing object; the notes array itself is the
// only part we trust. Returns ai.ErrMalformedPayload when no such pair exists.
func isolateArray(args string) (string, error) {
	start := strings.Index(args, "[")
	end := strings.LastIndex(args, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON array in arguments", ai.ErrMalformedPayload)
	}
	return args[start : end+1], nil
}

// parseNotes isolates and strictly decodes the notes array from a raw
// tool-call argument string. Every decoded note is validated; a note with
// empty text rejects the whole payload rather than producing a
// partially-typed result.
func parseNotes(args string) ([]core.Note, error) {
	isolated, err := isolateArray(args)
	if err != nil {
		return nil, err
	}

	var notes []core.Note
	if err := json.Unmarshal([]byte(isolated), &notes); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedPayload, err)
	}

	for i := range notes {
		if err := core.ValidateNote(&notes[i]); err != nil {
			return nil, fmt.Errorf("%w: note %d: %w", ai.ErrMalformedPayload, i, err)
		}
	}

	return notes, nil
}
