package ai

import (
	"context"

	"github.com/poiesic/papernotes/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// NoteExtractor derives structured notes from a paper's full text.
// Implementations must be thread-safe for concurrent use.
type NoteExtractor interface {
	// ExtractNotes asks the model for notes covering the entire paper text
	// and returns them as validated records. Every returned note has
	// non-empty text; page attributions may be empty.
	//
	// Failures are classified under core.ErrExtraction: a response without
	// a structured payload is ErrNoToolCall, a payload that cannot be
	// parsed into notes is ErrMalformedPayload. No retries happen here.
	ExtractNotes(ctx context.Context, paperText string) ([]core.Note, error)
}

// Answerer answers a question about an ingested paper.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer produces a free-text answer grounded in the given context
	// chunks and previously extracted notes.
	Answer(ctx context.Context, question string, contexts []string, notes []core.Note) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// NoteExtractor returns the note extraction service.
	NoteExtractor() NoteExtractor

	// Answerer returns the question answering service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	Close() error
}
