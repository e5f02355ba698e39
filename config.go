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


package papernotes

import (
	"fmt"
	"time"

	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/partition"
	"github.com/poiesic/papernotes/splitter"
	"github.com/poiesic/papernotes/storage/postgres"
)

// Config holds everything the service needs, assembled once at process
// start and validated before any I/O happens.
type Config struct {
	// PostgresDSN is the connection string for the relational and vector
	// stores. Required.
	PostgresDSN string

	// PartitionAPIKey authenticates against the partitioning API. Required.
	PartitionAPIKey string

	// PartitionBaseURL overrides the partitioning API endpoint.
	// Empty selects the hosted Unstructured API.
	PartitionBaseURL string

	// PartitionStrategy is the processing strategy flag. Empty selects hi_res.
	PartitionStrategy string

	// AI configures model hosts, model names, and the API token.
	AI *ai.Config

	// ChunkSize and ChunkOverlap control text windowing.
	ChunkSize    int
	ChunkOverlap int

	// EmbeddingDimension must match the configured embedding model.
	EmbeddingDimension int

	// MatchLimit is the number of chunks retrieved per question.
	MatchLimit int

	// Per-stage deadlines for external calls. Zero disables the deadline.
	FetchTimeout     time.Duration
	PartitionTimeout time.Duration
	ExtractTimeout   time.Duration
	PersistTimeout   time.Duration

	// Addr is the HTTP listen address for serve mode.
	Addr string
}

// DefaultConfig returns a config with every optional knob at its default.
// PostgresDSN and PartitionAPIKey must still be provided by the caller.
func DefaultConfig() *Config {
	return &Config{
		PartitionBaseURL:   partition.DefaultBaseURL,
		PartitionStrategy:  partition.DefaultStrategy,
		AI:                 ai.DefaultConfig(),
		ChunkSize:          splitter.DefaultChunkSize,
		ChunkOverlap:       splitter.DefaultChunkOverlap,
		EmbeddingDimension: postgres.DefaultDimension,
		MatchLimit:         8,
		Addr:               ":8080",
	}
}

// Validate checks the config and fails fast with core.ErrConfiguration
// before any connection is opened.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", core.ErrConfiguration)
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres DSN is required", core.ErrConfiguration)
	}
	if c.PartitionAPIKey == "" {
		return fmt.Errorf("%w: partition API key is required", core.ErrConfiguration)
	}
	if c.AI == nil {
		return fmt.Errorf("%w: AI config is required", core.ErrConfiguration)
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be positive (got %d)", core.ErrConfiguration, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", core.ErrConfiguration, c.ChunkOverlap, c.ChunkSize)
	}
	if c.EmbeddingDimension < 1 {
		return fmt.Errorf("%w: embedding dimension must be positive (got %d)", core.ErrConfiguration, c.EmbeddingDimension)
	}
	return nil
}
