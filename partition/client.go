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


package partition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/poiesic/papernotes/core"
)

const (
	// DefaultStrategy is the high-resolution partitioning strategy.
	DefaultStrategy = "hi_res"

	// DefaultBaseURL is the hosted Unstructured API endpoint.
	DefaultBaseURL = "https://api.unstructured.io"

	partitionPath         = "/general/v0/general"
	defaultRequestTimeout = 5 * time.Minute
)

// element mirrors one entry of the partitioning API response.
type element struct {
	Type     string         `json:"type"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Client calls an Unstructured-compatible partitioning API.
type Client struct {
	http     *resty.Client
	baseURL  string
	apiKey   string
	strategy string
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the partitioning service base URL.
// Default is the hosted Unstructured API.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithStrategy sets the processing strategy flag sent with each request.
// Default is "hi_res".
func WithStrategy(strategy string) ClientOption {
	return func(c *Client) {
		if strategy != "" {
			c.strategy = strategy
		}
	}
}

// WithRequestTimeout sets the per-request timeout.
// Default is 5 minutes; hi_res partitioning of long papers is slow.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a partitioning client. The API key is required; a
// missing key fails with core.ErrConfiguration before any network activity.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: partition API key is required", core.ErrConfiguration)
	}

	c := &Client{
		http:     resty.New().SetTimeout(defaultRequestTimeout),
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		strategy: DefaultStrategy,
		logger:   slog.Default().With("component", "partition-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Partition uploads the document and returns its text segments in reading
// order. Elements with empty text are dropped; page numbers from element
// metadata are carried onto the returned segments.
func (c *Client) Partition(ctx context.Context, doc []byte) ([]core.Segment, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	filename := uuid.NewString() + ".pdf"
	c.logger.Debug("partitioning document", "bytes", len(doc), "strategy", c.strategy)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("unstructured-api-key", c.apiKey).
		SetFileReader("files", filename, bytes.NewReader(doc)).
		SetFormData(map[string]string{"strategy": c.strategy}).
		Post(c.baseURL + partitionPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPartition, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPartition, resp.StatusCode(), resp.String())
	}

	var elements []element
	if err := json.Unmarshal(resp.Body(), &elements); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrPartition, err)
	}

	segments := make([]core.Segment, 0, len(elements))
	for _, el := range elements {
		if el.Text == "" {
			continue
		}
		segments = append(segments, core.Segment{
			Content:  el.Text,
			Metadata: segmentMetadata(el),
			Page:     pageNumber(el.Metadata),
		})
	}

	c.logger.Debug("partitioned document", "elements", len(elements), "segments", len(segments))
	return segments, nil
}

// segmentMetadata copies element metadata and records the element type.
func segmentMetadata(el element) map[string]any {
	meta := make(map[string]any, len(el.Metadata)+1)
	for k, v := range el.Metadata {
		meta[k] = v
	}
	if el.Type != "" {
		meta["element_type"] = el.Type
	}
	return meta
}

// pageNumber extracts the page number from element metadata, if present.
func pageNumber(meta map[string]any) int {
	switch v := meta["page_number"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
