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


package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
)

// Coordinator performs the dual write at the end of the pipeline: the
// relational paper record and the vector chunk entries, concurrently.
type Coordinator struct {
	papers storage.PaperRepository
	chunks storage.ChunkStore
	pool   *ants.Pool
	logger *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator) error

// WithCoordinatorPoolSize sets the worker pool size for the dual write.
// Default is 2, one worker per side.
func WithCoordinatorPoolSize(size int) CoordinatorOption {
	return func(c *Coordinator) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithCoordinatorLogger sets a custom logger.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewCoordinator creates a persistence coordinator.
func NewCoordinator(papers storage.PaperRepository, chunks storage.ChunkStore, opts ...CoordinatorOption) (*Coordinator, error) {
	if papers == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}

	pool, err := ants.NewPool(2)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		papers: papers,
		chunks: chunks,
		pool:   pool,
		logger: slog.Default().With("component", "persistence-coordinator"),
	}
	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}
	return c, nil
}

// Persist writes the paper record and the chunk entries concurrently.
// Both writes are always attempted, regardless of how the other fares.
//
// When both land, the inserted paper is returned. When exactly one side
// fails, the error is a PartialPersistenceError naming that side; when
// both fail, a PersistenceError carrying both causes. A context cancelled
// mid-write surfaces through the failing side, never as success.
func (c *Coordinator) Persist(ctx context.Context, paper *core.Paper, chunks []core.Chunk) (*core.Paper, error) {
	var (
		wg       sync.WaitGroup
		inserted *core.Paper
		paperErr error
		chunkErr error
	)

	wg.Add(2)
	if submitErr := c.pool.Submit(func() {
		defer wg.Done()
		inserted, paperErr = c.papers.AddPaper(ctx, paper)
	}); submitErr != nil {
		paperErr = submitErr
		wg.Done()
	}
	if submitErr := c.pool.Submit(func() {
		defer wg.Done()
		chunkErr = c.chunks.AddChunks(ctx, paper.SourceURL, chunks)
	}); submitErr != nil {
		chunkErr = submitErr
		wg.Done()
	}
	wg.Wait()

	switch {
	case paperErr == nil && chunkErr == nil:
		c.logger.Debug("persisted paper and chunks",
			"id", inserted.ID, "url", inserted.SourceURL, "chunks", len(chunks))
		return inserted, nil
	case paperErr != nil && chunkErr != nil:
		return nil, &PersistenceError{PaperErr: paperErr, ChunkErr: chunkErr}
	case paperErr != nil:
		c.logger.Warn("paper write failed, chunk entries persisted",
			"url", paper.SourceURL, "err", paperErr)
		return nil, &PartialPersistenceError{Side: SidePapers, Err: paperErr}
	default:
		c.logger.Warn("chunk write failed, paper record persisted",
			"id", inserted.ID, "url", inserted.SourceURL, "err", chunkErr)
		return nil, &PartialPersistenceError{Side: SideChunks, Err: chunkErr}
	}
}

// Release releases the worker pool.
// The coordinator should not be used after calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
