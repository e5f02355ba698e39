package storage

import (
	"context"

	"github.com/poiesic/papernotes/core"
)

// PaperRepository provides operations for the relational paper records.
// Implementations must be thread-safe and support concurrent access.
type PaperRepository interface {
	// AddPaper inserts one paper record and returns it with its assigned ID
	// and InsertedAt populated. Fields are written by column name, never by
	// position. Repeated inserts for the same source URL create new records.
	AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error)

	// GetPaperByURL retrieves the most recently inserted paper record for
	// the given source URL. Returns ErrNotFound when none exists.
	GetPaperByURL(ctx context.Context, sourceURL string) (*core.Paper, error)
}

// ChunkStore provides operations for embedded text chunks.
// Implementations must be thread-safe and support concurrent access.
type ChunkStore interface {
	// AddChunks embeds every chunk and upserts the resulting vector entries
	// under the given source URL. Entry IDs derive from chunk content, so
	// re-adding identical chunks is idempotent.
	AddChunks(ctx context.Context, sourceURL string, chunks []core.Chunk) error

	// SimilaritySearch embeds the query and returns up to limit chunks for
	// the given source URL, ordered by similarity (highest first).
	SimilaritySearch(ctx context.Context, sourceURL, query string, limit int) ([]core.ChunkMatch, error)
}

// AnswerRepository provides operations for persisted QA results.
type AnswerRepository interface {
	// AddAnswer inserts one answer record and returns it with its assigned
	// ID and InsertedAt populated.
	AddAnswer(ctx context.Context, answer *core.Answer) (*core.Answer, error)
}
