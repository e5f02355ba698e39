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


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
)

const (
	// DefaultMatchLimit is the default number of chunks retrieved per question.
	DefaultMatchLimit = 8

	// answerWriteTimeout bounds the async answer record insert.
	answerWriteTimeout = 30 * time.Second
)

// Searcher answers questions about ingested papers from their stored
// chunk vectors and saved notes.
type Searcher struct {
	chunks   storage.ChunkStore
	papers   storage.PaperRepository
	answers  storage.AnswerRepository
	answerer ai.Answerer
	limit    int
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithMatchLimit sets how many chunks are retrieved per question.
// Default is DefaultMatchLimit.
func WithMatchLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			limit = 1
		}
		s.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	chunks storage.ChunkStore,
	papers storage.PaperRepository,
	answers storage.AnswerRepository,
	answerer ai.Answerer,
	opts ...Option,
) (*Searcher, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if papers == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if answers == nil {
		return nil, ErrAnswerRepositoryRequired
	}
	if answerer == nil {
		return nil, ErrAIProviderRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		chunks:   chunks,
		papers:   papers,
		answers:  answers,
		answerer: answerer,
		limit:    DefaultMatchLimit,
		pool:     pool,
		logger:   slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Answer answers a question about the paper at sourceURL.
func (s *Searcher) Answer(ctx context.Context, sourceURL, question string) (*core.Answer, error) {
	return s.AnswerWithMonitor(ctx, sourceURL, question, nil)
}

// AnswerWithMonitor answers a question with monitoring callbacks at each
// stage. The answer record is persisted asynchronously; a failed insert is
// logged and never fails the response.
func (s *Searcher) AnswerWithMonitor(ctx context.Context, sourceURL, question string, monitor Monitor) (*core.Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	monitor.Start(question)

	paper, err := s.papers.GetPaperByURL(ctx, sourceURL)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPaperNotIngested, sourceURL)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving paper notes: %w", err)
	}
	monitor.AfterNotesRetrieval(paper.Notes)

	matches, err := s.chunks.SimilaritySearch(ctx, sourceURL, question, s.limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	monitor.AfterSimilaritySearch(matches)

	contexts := make([]string, len(matches))
	for i, match := range matches {
		contexts[i] = match.Chunk.Content
	}

	text, err := s.answerer.Answer(ctx, question, contexts, paper.Notes)
	if err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}

	answer := &core.Answer{
		SourceURL: sourceURL,
		Question:  question,
		Answer:    text,
	}
	s.recordAnswer(answer)

	monitor.Finish(answer)
	return answer, nil
}

// recordAnswer submits the answer insert to the worker pool. The write is
// detached from the request context so an already-answered question is
// recorded even when the caller goes away.
func (s *Searcher) recordAnswer(answer *core.Answer) {
	record := *answer
	err := s.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), answerWriteTimeout)
		defer cancel()
		if _, err := s.answers.AddAnswer(ctx, &record); err != nil {
			s.logger.Error("error recording answer", "url", record.SourceURL, "err", err)
		}
	})
	if err != nil {
		s.logger.Error("error submitting answer record", "url", answer.SourceURL, "err", err)
	}
}

// Release releases the worker pool.
// The searcher should not be used after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
