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
	"sync"
	"testing"
	"time"

	"github.com/poiesic/papernotes/ai/mock"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkStore struct {
	matches   []core.ChunkMatch
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeChunkStore) AddChunks(ctx context.Context, sourceURL string, chunks []core.Chunk) error {
	return errors.New("not implemented")
}

func (f *fakeChunkStore) SimilaritySearch(ctx context.Context, sourceURL, query string, limit int) ([]core.ChunkMatch, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.matches, f.err
}

type fakePaperRepo struct {
	paper *core.Paper
	err   error
}

func (f *fakePaperRepo) AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaperRepo) GetPaperByURL(ctx context.Context, sourceURL string) (*core.Paper, error) {
	return f.paper, f.err
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	added   []*core.Answer
	addErr  error
}

func (f *fakeAnswerRepo) AddAnswer(ctx context.Context, answer *core.Answer) (*core.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, answer)
	inserted := *answer
	inserted.ID = int64(len(f.added))
	return &inserted, nil
}

func (f *fakeAnswerRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.added)
}

const paperURL = "https://arxiv.org/pdf/1706.03762.pdf"

func ingestedPaper() *core.Paper {
	return &core.Paper{
		ID:        1,
		SourceURL: paperURL,
		Name:      "attention",
		Notes:     []core.Note{{Text: "introduces the Transformer", PageNumbers: []int{2}}},
	}
}

func TestSearcherAnswer(t *testing.T) {
	chunks := &fakeChunkStore{matches: []core.ChunkMatch{
		{Chunk: core.Chunk{Content: "The Transformer uses self-attention."}, Score: 0.91},
		{Chunk: core.Chunk{Content: "Positional encodings inject order."}, Score: 0.84},
	}}
	papers := &fakePaperRepo{paper: ingestedPaper()}
	answers := &fakeAnswerRepo{}

	answerer := mock.NewMockAnswerer()
	answerer.AnswerFunc = func(ctx context.Context, question string, contexts []string, notes []core.Note) (string, error) {
		assert.Equal(t, []string{
			"The Transformer uses self-attention.",
			"Positional encodings inject order.",
		}, contexts)
		require.Len(t, notes, 1)
		return "it relies on self-attention", nil
	}

	s, err := NewSearcher(chunks, papers, answers, answerer)
	require.NoError(t, err)
	defer s.Release()

	answer, err := s.Answer(context.Background(), paperURL, "how does it model dependencies?")
	require.NoError(t, err)
	assert.Equal(t, "it relies on self-attention", answer.Answer)
	assert.Equal(t, paperURL, answer.SourceURL)
	assert.Equal(t, "how does it model dependencies?", chunks.lastQuery)
	assert.Equal(t, DefaultMatchLimit, chunks.lastLimit)

	// The answer record lands asynchronously.
	assert.Eventually(t, func() bool { return answers.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSearcherAnswerEmptyQuestion(t *testing.T) {
	s, err := NewSearcher(&fakeChunkStore{}, &fakePaperRepo{}, &fakeAnswerRepo{}, mock.NewMockAnswerer())
	require.NoError(t, err)
	defer s.Release()

	_, err = s.Answer(context.Background(), paperURL, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestSearcherAnswerPaperNotIngested(t *testing.T) {
	papers := &fakePaperRepo{err: fmt.Errorf("%w: no paper", storage.ErrNotFound)}
	s, err := NewSearcher(&fakeChunkStore{}, papers, &fakeAnswerRepo{}, mock.NewMockAnswerer())
	require.NoError(t, err)
	defer s.Release()

	_, err = s.Answer(context.Background(), paperURL, "a question")
	assert.ErrorIs(t, err, ErrPaperNotIngested)
}

func TestSearcherAnswerRecordFailureDoesNotFail(t *testing.T) {
	answers := &fakeAnswerRepo{addErr: errors.New("insert failed")}
	papers := &fakePaperRepo{paper: ingestedPaper()}
	s, err := NewSearcher(&fakeChunkStore{}, papers, answers, mock.NewMockAnswerer())
	require.NoError(t, err)
	defer s.Release()

	answer, err := s.Answer(context.Background(), paperURL, "a question")
	require.NoError(t, err, "a failed answer insert never fails the response")
	assert.NotEmpty(t, answer.Answer)
}

func TestSearcherAnswererFailure(t *testing.T) {
	modelErr := errors.New("model unavailable")
	answerer := mock.NewMockAnswerer()
	answerer.AnswerFunc = func(ctx context.Context, question string, contexts []string, notes []core.Note) (string, error) {
		return "", modelErr
	}
	papers := &fakePaperRepo{paper: ingestedPaper()}
	answers := &fakeAnswerRepo{}
	s, err := NewSearcher(&fakeChunkStore{}, papers, answers, answerer)
	require.NoError(t, err)
	defer s.Release()

	_, err = s.Answer(context.Background(), paperURL, "a question")
	assert.ErrorIs(t, err, modelErr)
	assert.Equal(t, 0, answers.count(), "no record is written for a failed answer")
}

func TestSearcherMonitorCallbacks(t *testing.T) {
	chunks := &fakeChunkStore{matches: []core.ChunkMatch{
		{Chunk: core.Chunk{Content: "passage"}, Score: 0.8},
	}}
	papers := &fakePaperRepo{paper: ingestedPaper()}
	s, err := NewSearcher(chunks, papers, &fakeAnswerRepo{}, mock.NewMockAnswerer())
	require.NoError(t, err)
	defer s.Release()

	monitor := &recordingMonitor{}
	answer, err := s.AnswerWithMonitor(context.Background(), paperURL, "a question", monitor)
	require.NoError(t, err)

	assert.Equal(t, "a question", monitor.question)
	assert.Len(t, monitor.matches, 1)
	assert.Len(t, monitor.notes, 1)
	assert.Equal(t, answer, monitor.answer)
}

func TestNewSearcherValidation(t *testing.T) {
	answerer := mock.NewMockAnswerer()

	_, err := NewSearcher(nil, &fakePaperRepo{}, &fakeAnswerRepo{}, answerer)
	assert.ErrorIs(t, err, ErrChunkStoreRequired)

	_, err = NewSearcher(&fakeChunkStore{}, nil, &fakeAnswerRepo{}, answerer)
	assert.ErrorIs(t, err, ErrPaperRepositoryRequired)

	_, err = NewSearcher(&fakeChunkStore{}, &fakePaperRepo{}, nil, answerer)
	assert.ErrorIs(t, err, ErrAnswerRepositoryRequired)

	_, err = NewSearcher(&fakeChunkStore{}, &fakePaperRepo{}, &fakeAnswerRepo{}, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

type recordingMonitor struct {
	question string
	matches  []core.ChunkMatch
	notes    []core.Note
	answer   *core.Answer
}

func (m *recordingMonitor) Start(question string)                        { m.question = question }
func (m *recordingMonitor) AfterSimilaritySearch(ms []core.ChunkMatch)   { m.matches = ms }
func (m *recordingMonitor) AfterNotesRetrieval(notes []core.Note)        { m.notes = notes }
func (m *recordingMonitor) Finish(answer *core.Answer)                   { m.answer = answer }
