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
	"errors"
	"testing"

	"github.com/poiesic/papernotes/ai/mock"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/splitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	doc     []byte
	err     error
	lastURL string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.lastURL = url
	return f.doc, f.err
}

type fakePartitioner struct {
	segments []core.Segment
	err      error
	lastDoc  []byte
}

func (f *fakePartitioner) Partition(ctx context.Context, doc []byte) ([]core.Segment, error) {
	f.lastDoc = doc
	return f.segments, f.err
}

func passthroughPrune(captured *[]int) PruneFunc {
	return func(doc []byte, excludedPages []int) ([]byte, error) {
		*captured = excludedPages
		return doc, nil
	}
}

func newTestPipeline(t *testing.T, fetcher Fetcher, partitioner Partitioner,
	extractor *mock.MockNoteExtractor, papers *fakePaperRepo, chunks *fakeChunkStore,
	opts ...PipelineOption) *Pipeline {
	t.Helper()

	chunker, err := splitter.New(splitter.DefaultChunkSize, splitter.DefaultChunkOverlap)
	require.NoError(t, err)

	coord, err := NewCoordinator(papers, chunks)
	require.NoError(t, err)
	t.Cleanup(coord.Release)

	pipeline, err := NewPipeline(fetcher, partitioner, chunker, extractor, coord, opts...)
	require.NoError(t, err)
	return pipeline
}

func TestPipelineIngestSuccess(t *testing.T) {
	fetcher := &fakeFetcher{doc: []byte("%PDF-raw")}
	partitioner := &fakePartitioner{segments: []core.Segment{
		{Content: "Attention is all you need.", Page: 1},
		{Content: "We propose the Transformer.", Page: 2},
	}}
	extractor := mock.NewMockNoteExtractor()
	extractor.ExtractNotesFunc = func(ctx context.Context, paperText string) ([]core.Note, error) {
		assert.Equal(t, "Attention is all you need.\n\nWe propose the Transformer.", paperText)
		return []core.Note{{Text: "introduces the Transformer", PageNumbers: []int{2}}}, nil
	}

	papers := &fakePaperRepo{}
	chunks := &fakeChunkStore{}
	var prunedPages []int
	pipeline := newTestPipeline(t, fetcher, partitioner, extractor, papers, chunks,
		WithPruneFunc(passthroughPrune(&prunedPages)))

	ref := core.DocumentReference{
		SourceURL:     "https://arxiv.org/pdf/1706.03762.pdf",
		Name:          "attention",
		ExcludedPages: []int{11, 12},
	}
	paper, err := pipeline.Ingest(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, ref.SourceURL, fetcher.lastURL)
	assert.Equal(t, []int{11, 12}, prunedPages)
	assert.Equal(t, []byte("%PDF-raw"), partitioner.lastDoc)
	assert.Equal(t, int64(1), paper.ID)
	assert.Equal(t, "attention", paper.Name)
	require.Len(t, paper.Notes, 1)
	assert.Equal(t, "introduces the Transformer", paper.Notes[0].Text)
	assert.Equal(t, int32(1), papers.addCalls.Load())
	assert.Equal(t, int32(1), chunks.addCalls.Load())
}

func TestPipelineIngestInvalidReference(t *testing.T) {
	fetcher := &fakeFetcher{}
	pipeline := newTestPipeline(t, fetcher, &fakePartitioner{}, mock.NewMockNoteExtractor(),
		&fakePaperRepo{}, &fakeChunkStore{})

	_, err := pipeline.Ingest(context.Background(), core.DocumentReference{SourceURL: "  "})
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Empty(t, fetcher.lastURL, "no I/O before validation passes")
}

func TestPipelineIngestStageErrors(t *testing.T) {
	fetchErr := errors.New("503 from origin")
	partitionErr := errors.New("partition API rejected upload")
	extractErr := errors.New("model unavailable")

	tests := []struct {
		name      string
		configure func(f *fakeFetcher, p *fakePartitioner, e *mock.MockNoteExtractor)
		wantStage Stage
		wantErr   error
	}{
		{
			name: "fetch failure",
			configure: func(f *fakeFetcher, p *fakePartitioner, e *mock.MockNoteExtractor) {
				f.err = fetchErr
			},
			wantStage: StageFetch,
			wantErr:   fetchErr,
		},
		{
			name: "partition failure",
			configure: func(f *fakeFetcher, p *fakePartitioner, e *mock.MockNoteExtractor) {
				p.segments = nil
				p.err = partitionErr
			},
			wantStage: StagePartition,
			wantErr:   partitionErr,
		},
		{
			name: "empty document",
			configure: func(f *fakeFetcher, p *fakePartitioner, e *mock.MockNoteExtractor) {
				p.segments = nil
			},
			wantStage: StageChunk,
			wantErr:   core.ErrMalformedDocument,
		},
		{
			name: "extraction failure",
			configure: func(f *fakeFetcher, p *fakePartitioner, e *mock.MockNoteExtractor) {
				e.ExtractNotesFunc = func(ctx context.Context, paperText string) ([]core.Note, error) {
					return nil, extractErr
				}
			},
			wantStage: StageExtract,
			wantErr:   extractErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{doc: []byte("%PDF-raw")}
			partitioner := &fakePartitioner{segments: []core.Segment{{Content: "some text", Page: 1}}}
			extractor := mock.NewMockNoteExtractor()
			tt.configure(fetcher, partitioner, extractor)

			var prunedPages []int
			pipeline := newTestPipeline(t, fetcher, partitioner, extractor,
				&fakePaperRepo{}, &fakeChunkStore{},
				WithPruneFunc(passthroughPrune(&prunedPages)))

			_, err := pipeline.Ingest(context.Background(), core.DocumentReference{
				SourceURL: "https://example.com/paper.pdf",
				Name:      "paper",
			})
			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.wantStage, stageErr.Stage)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPipelineIngestPruneFailureSkipsDownstream(t *testing.T) {
	pruneErr := errors.New("page 99 out of range")
	fetcher := &fakeFetcher{doc: []byte("%PDF-raw")}
	partitioner := &fakePartitioner{segments: []core.Segment{{Content: "text"}}}
	extractor := mock.NewMockNoteExtractor()

	pipeline := newTestPipeline(t, fetcher, partitioner, extractor,
		&fakePaperRepo{}, &fakeChunkStore{},
		WithPruneFunc(func(doc []byte, excludedPages []int) ([]byte, error) {
			return nil, pruneErr
		}))

	_, err := pipeline.Ingest(context.Background(), core.DocumentReference{
		SourceURL:     "https://example.com/paper.pdf",
		ExcludedPages: []int{99},
	})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StagePrune, stageErr.Stage)
	assert.Nil(t, partitioner.lastDoc, "partition must not run after a prune failure")
	assert.Equal(t, 0, extractor.CallCount())
}

func TestPipelineIngestPersistFailureIsStagePersist(t *testing.T) {
	dbErr := errors.New("db down")
	fetcher := &fakeFetcher{doc: []byte("%PDF-raw")}
	partitioner := &fakePartitioner{segments: []core.Segment{{Content: "some text", Page: 1}}}
	papers := &fakePaperRepo{
		addFunc: func(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
			return nil, dbErr
		},
	}

	var prunedPages []int
	pipeline := newTestPipeline(t, fetcher, partitioner, mock.NewMockNoteExtractor(),
		papers, &fakeChunkStore{},
		WithPruneFunc(passthroughPrune(&prunedPages)))

	_, err := pipeline.Ingest(context.Background(), core.DocumentReference{
		SourceURL: "https://example.com/paper.pdf",
	})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StagePersist, stageErr.Stage)

	var partial *PartialPersistenceError
	assert.ErrorAs(t, err, &partial)
}

func TestNewPipelineValidation(t *testing.T) {
	chunker, err := splitter.New(splitter.DefaultChunkSize, splitter.DefaultChunkOverlap)
	require.NoError(t, err)
	coord, err := NewCoordinator(&fakePaperRepo{}, &fakeChunkStore{})
	require.NoError(t, err)
	defer coord.Release()

	extractor := mock.NewMockNoteExtractor()
	fetcher := &fakeFetcher{}
	partitioner := &fakePartitioner{}

	_, err = NewPipeline(nil, partitioner, chunker, extractor, coord)
	assert.ErrorIs(t, err, ErrFetcherRequired)

	_, err = NewPipeline(fetcher, nil, chunker, extractor, coord)
	assert.ErrorIs(t, err, ErrPartitionerRequired)

	_, err = NewPipeline(fetcher, partitioner, nil, extractor, coord)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(fetcher, partitioner, chunker, nil, coord)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewPipeline(fetcher, partitioner, chunker, extractor, nil)
	assert.ErrorIs(t, err, ErrCoordinatorRequired)
}
