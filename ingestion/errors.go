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
	"errors"
	"fmt"
)

var (
	// ErrFetcherRequired is returned when a fetcher is not provided.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrPartitionerRequired is returned when a partitioner is not provided.
	ErrPartitionerRequired = errors.New("partitioner required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrExtractorRequired is returned when a note extractor is not provided.
	ErrExtractorRequired = errors.New("note extractor required")

	// ErrCoordinatorRequired is returned when a persistence coordinator is not provided.
	ErrCoordinatorRequired = errors.New("persistence coordinator required")

	// ErrPaperRepositoryRequired is returned when a paper repository is not provided.
	ErrPaperRepositoryRequired = errors.New("paper repository required")

	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")
)

// Stage identifies a pipeline stage.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StagePrune     Stage = "prune"
	StagePartition Stage = "partition"
	StageChunk     Stage = "chunk"
	StageExtract   Stage = "extract"
	StagePersist   Stage = "persist"
)

// Sides of the dual write, as reported by persistence errors.
const (
	SidePapers = "papers"
	SideChunks = "chunks"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// PartialPersistenceError reports a dual write where exactly one side
// failed. The other side's data was persisted and remains in place.
type PartialPersistenceError struct {
	Side string // SidePapers or SideChunks
	Err  error
}

func (e *PartialPersistenceError) Error() string {
	return fmt.Sprintf("partial persistence: %s write failed: %v", e.Side, e.Err)
}

func (e *PartialPersistenceError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a dual write where both sides failed.
type PersistenceError struct {
	PaperErr error
	ChunkErr error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: papers: %v; chunks: %v", e.PaperErr, e.ChunkErr)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{e.PaperErr, e.ChunkErr}
}
