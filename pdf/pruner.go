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


package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/poiesic/papernotes/core"
)

// PageCount returns the number of pages in the given PDF bytes.
// Returns core.ErrMalformedDocument if the bytes are not a valid PDF.
func PageCount(doc []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(doc), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrMalformedDocument, err)
	}
	return count, nil
}

// Prune removes the given 1-indexed pages from the PDF and returns the
// resulting bytes. Pages are removed in a single batch, so callers pass the
// original page numbers without adjusting for earlier removals.
//
// An empty or nil page list returns the input bytes unchanged. Invalid PDF
// bytes, duplicate page numbers, out-of-range page numbers, and removing
// every page are all reported as core.ErrMalformedDocument.
func Prune(doc []byte, excludedPages []int) ([]byte, error) {
	if len(excludedPages) == 0 {
		return doc, nil
	}

	count, err := PageCount(doc)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(excludedPages))
	selection := make([]string, 0, len(excludedPages))
	for _, page := range excludedPages {
		if page < 1 || page > count {
			return nil, fmt.Errorf("%w: page %d out of range (document has %d pages)",
				core.ErrMalformedDocument, page, count)
		}
		if seen[page] {
			return nil, fmt.Errorf("%w: duplicate page %d in exclusion list",
				core.ErrMalformedDocument, page)
		}
		seen[page] = true
		selection = append(selection, strconv.Itoa(page))
	}

	if len(excludedPages) >= count {
		return nil, fmt.Errorf("%w: cannot remove all %d pages", core.ErrMalformedDocument, count)
	}

	var pruned bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(doc), &pruned, selection, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedDocument, err)
	}

	return pruned.Bytes(), nil
}
