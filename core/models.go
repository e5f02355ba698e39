package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs, which keeps vector-store upserts
// idempotent across repeated ingestions of the same paper.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentReference identifies one source paper for a single pipeline run.
// It is created by the caller and never mutated by the pipeline.
type DocumentReference struct {
	SourceURL     string
	Name          string
	ExcludedPages []int // 1-indexed page numbers to remove before partitioning
}

// Segment is one unit of partitioned text in reading order.
// Page is 0 when the partitioner reported no page number.
type Segment struct {
	Content  string
	Metadata map[string]any
	Page     int
}

// Chunk is a bounded, possibly overlapping window over segment text,
// sized for embedding and model-context constraints.
type Chunk struct {
	Content  string
	Metadata map[string]any
}

// Note is a single structured note derived from a paper by the model.
// PageNumbers may legitimately be empty when the note has no page attribution.
type Note struct {
	Text        string `json:"text"`
	PageNumbers []int  `json:"pageNumbers"`
}

// Paper is the relational record created once per successful pipeline run.
// Re-running the pipeline for the same URL creates a new record; duplicates
// are legal.
type Paper struct {
	ID         int64
	SourceURL  string
	Name       string
	Notes      []Note
	FullText   string
	InsertedAt time.Time
}

// Answer is a persisted question-answering result for an ingested paper.
type Answer struct {
	ID         int64
	SourceURL  string
	Question   string
	Answer     string
	InsertedAt time.Time
}

// ChunkMatch is one chunk returned from vector similarity search.
type ChunkMatch struct {
	Chunk Chunk
	Score float64
}
