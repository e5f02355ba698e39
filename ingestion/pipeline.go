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
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/pdf"
	"github.com/poiesic/papernotes/splitter"
)

// Fetcher retrieves raw document bytes. *pdf.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Partitioner splits document bytes into ordered text segments.
// *partition.Client satisfies it.
type Partitioner interface {
	Partition(ctx context.Context, doc []byte) ([]core.Segment, error)
}

// Chunker windows segments into chunks. *splitter.Splitter satisfies it.
type Chunker interface {
	Split(segments []core.Segment) []core.Chunk
}

// PruneFunc removes excluded pages from document bytes. pdf.Prune is the
// default implementation.
type PruneFunc func(doc []byte, excludedPages []int) ([]byte, error)

// Timeouts bounds the externally facing pipeline stages. A zero value
// leaves the stage bounded only by the caller's context.
type Timeouts struct {
	Fetch     time.Duration
	Partition time.Duration
	Extract   time.Duration
	Persist   time.Duration
}

// Pipeline orchestrates one paper ingestion run from reference to
// persisted notes. Stages run strictly in order and every stage consumes
// only the previous stage's output; a failed stage aborts the run with a
// StageError and nothing downstream executes.
type Pipeline struct {
	fetcher     Fetcher
	prune       PruneFunc
	partitioner Partitioner
	chunker     Chunker
	extractor   ai.NoteExtractor
	coordinator *Coordinator
	timeouts    Timeouts
	logger      *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPruneFunc replaces the page pruning implementation.
// Default is pdf.Prune.
func WithPruneFunc(prune PruneFunc) PipelineOption {
	return func(p *Pipeline) error {
		if prune != nil {
			p.prune = prune
		}
		return nil
	}
}

// WithTimeouts sets per-stage deadlines. Zero fields leave the stage
// bounded only by the caller's context.
func WithTimeouts(timeouts Timeouts) PipelineOption {
	return func(p *Pipeline) error {
		p.timeouts = timeouts
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	fetcher Fetcher,
	partitioner Partitioner,
	chunker Chunker,
	extractor ai.NoteExtractor,
	coordinator *Coordinator,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if partitioner == nil {
		return nil, ErrPartitionerRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if coordinator == nil {
		return nil, ErrCoordinatorRequired
	}

	p := &Pipeline{
		fetcher:     fetcher,
		prune:       pdf.Prune,
		partitioner: partitioner,
		chunker:     chunker,
		extractor:   extractor,
		coordinator: coordinator,
		logger:      slog.Default().With("component", "ingestion-pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Ingest runs the full pipeline for one document reference and returns the
// persisted paper with its extracted notes. The reference is validated
// before any I/O. There are no internal retries; callers decide retry
// policy around the whole run.
func (p *Pipeline) Ingest(ctx context.Context, ref core.DocumentReference) (*core.Paper, error) {
	if err := core.ValidateDocumentReference(&ref); err != nil {
		return nil, fmt.Errorf("invalid document reference: %w", err)
	}

	started := time.Now()
	p.logger.Info("ingesting paper", "url", ref.SourceURL, "name", ref.Name, "excluded_pages", len(ref.ExcludedPages))

	doc, err := p.runFetch(ctx, ref.SourceURL)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}

	pruned, err := p.prune(doc, ref.ExcludedPages)
	if err != nil {
		return nil, &StageError{Stage: StagePrune, Err: err}
	}

	segments, err := p.runPartition(ctx, pruned)
	if err != nil {
		return nil, &StageError{Stage: StagePartition, Err: err}
	}

	chunks := p.chunker.Split(segments)
	fullText := splitter.FullText(segments)
	if len(chunks) == 0 || fullText == "" {
		return nil, &StageError{
			Stage: StageChunk,
			Err:   fmt.Errorf("%w: document yielded no text", core.ErrMalformedDocument),
		}
	}

	notes, err := p.runExtract(ctx, fullText)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	paper := &core.Paper{
		SourceURL: ref.SourceURL,
		Name:      ref.Name,
		Notes:     notes,
		FullText:  fullText,
	}
	persisted, err := p.runPersist(ctx, paper, chunks)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}

	p.logger.Info("ingested paper",
		"id", persisted.ID, "url", persisted.SourceURL,
		"notes", len(persisted.Notes), "chunks", len(chunks),
		"took", time.Since(started))
	return persisted, nil
}

func (p *Pipeline) runFetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := stageContext(ctx, p.timeouts.Fetch)
	defer cancel()
	return p.fetcher.Fetch(ctx, url)
}

func (p *Pipeline) runPartition(ctx context.Context, doc []byte) ([]core.Segment, error) {
	ctx, cancel := stageContext(ctx, p.timeouts.Partition)
	defer cancel()
	return p.partitioner.Partition(ctx, doc)
}

func (p *Pipeline) runExtract(ctx context.Context, fullText string) ([]core.Note, error) {
	ctx, cancel := stageContext(ctx, p.timeouts.Extract)
	defer cancel()
	return p.extractor.ExtractNotes(ctx, fullText)
}

func (p *Pipeline) runPersist(ctx context.Context, paper *core.Paper, chunks []core.Chunk) (*core.Paper, error) {
	ctx, cancel := stageContext(ctx, p.timeouts.Persist)
	defer cancel()
	return p.coordinator.Persist(ctx, paper, chunks)
}

func stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
