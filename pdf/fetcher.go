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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/papernotes/core"
)

const defaultFetchTimeout = 60 * time.Second

// Fetcher retrieves raw document bytes over HTTP.
type Fetcher struct {
	client *resty.Client
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-request timeout.
// Default is 60 seconds.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.SetTimeout(timeout)
		}
	}
}

// WithFetchLogger sets a custom logger.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: resty.New().SetTimeout(defaultFetchTimeout),
		logger: slog.Default().With("component", "pdf-fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the document at the given URL and returns its raw bytes.
// Any transport failure or non-2xx response is reported as core.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.logger.Debug("fetching document", "url", url)

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrFetch, url, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s returned status %d", core.ErrFetch, url, resp.StatusCode())
	}

	body := resp.Body()
	f.logger.Debug("fetched document", "url", url, "bytes", len(body))
	return body, nil
}
