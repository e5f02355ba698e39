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


// Package papernotes wires the paper ingestion and question answering
// service together from one validated Config.
package papernotes

import (
	"context"
	"log/slog"

	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/ai/openai"
	"github.com/poiesic/papernotes/ingestion"
	"github.com/poiesic/papernotes/partition"
	"github.com/poiesic/papernotes/pdf"
	"github.com/poiesic/papernotes/search"
	"github.com/poiesic/papernotes/splitter"
	"github.com/poiesic/papernotes/storage"
	"github.com/poiesic/papernotes/storage/postgres"
)

// Service is the assembled application: storage, AI provider, ingestion
// pipeline, and searcher behind one lifecycle.
type Service struct {
	config      *Config
	backend     *postgres.Backend
	papers      storage.PaperRepository
	chunks      storage.ChunkStore
	answers     storage.AnswerRepository
	provider    ai.Provider
	coordinator *ingestion.Coordinator
	pipeline    *ingestion.Pipeline
	searcher    *search.Searcher
	logger      *slog.Logger
}

// NewService validates the config, connects to storage, and builds the
// pipeline and searcher. On any failure, everything already opened is
// released before returning.
func NewService(ctx context.Context, config *Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	backend, err := postgres.Open(ctx, config.PostgresDSN)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(config.AI)
	if err != nil {
		backend.Close()
		return nil, err
	}

	papers, err := postgres.NewPaperRepository(ctx, backend.DB())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	chunks, err := postgres.NewChunkStore(ctx, backend.DB(), provider.Embedder(),
		postgres.WithDimension(config.EmbeddingDimension))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	answers, err := postgres.NewAnswerRepository(ctx, backend.DB())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	coordinator, err := ingestion.NewCoordinator(papers, chunks)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	partitioner, err := partition.NewClient(config.PartitionAPIKey,
		partition.WithBaseURL(config.PartitionBaseURL),
		partition.WithStrategy(config.PartitionStrategy),
		partition.WithRequestTimeout(config.PartitionTimeout))
	if err != nil {
		coordinator.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	chunker, err := splitter.New(config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		coordinator.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	fetcher := pdf.NewFetcher(pdf.WithFetchTimeout(config.FetchTimeout))
	pipeline, err := ingestion.NewPipeline(fetcher, partitioner, chunker,
		provider.NoteExtractor(), coordinator,
		ingestion.WithTimeouts(ingestion.Timeouts{
			Fetch:     config.FetchTimeout,
			Partition: config.PartitionTimeout,
			Extract:   config.ExtractTimeout,
			Persist:   config.PersistTimeout,
		}))
	if err != nil {
		coordinator.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(chunks, papers, answers, provider.Answerer(),
		search.WithMatchLimit(config.MatchLimit))
	if err != nil {
		coordinator.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		config:      config,
		backend:     backend,
		papers:      papers,
		chunks:      chunks,
		answers:     answers,
		provider:    provider,
		coordinator: coordinator,
		pipeline:    pipeline,
		searcher:    searcher,
		logger:      slog.Default().With("component", "service"),
	}, nil
}

// Pipeline returns the ingestion pipeline.
func (s *Service) Pipeline() *ingestion.Pipeline {
	return s.pipeline
}

// Searcher returns the question answering searcher.
func (s *Service) Searcher() *search.Searcher {
	return s.searcher
}

// PaperRepository returns the relational paper store.
func (s *Service) PaperRepository() storage.PaperRepository {
	return s.papers
}

// ChunkStore returns the vector chunk store.
func (s *Service) ChunkStore() storage.ChunkStore {
	return s.chunks
}

// AnswerRepository returns the QA record store.
func (s *Service) AnswerRepository() storage.AnswerRepository {
	return s.answers
}

// Close releases resources in reverse construction order.
func (s *Service) Close() error {
	s.searcher.Release()
	s.coordinator.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
