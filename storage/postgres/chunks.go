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


package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
)

// DefaultDimension is the default embedding vector dimension.
const DefaultDimension = 768

const upsertChunkStmt = `INSERT INTO ` + chunksTable + ` (id, source_url, content, metadata, embedding)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	source_url = excluded.source_url,
	content = excluded.content,
	metadata = excluded.metadata,
	embedding = excluded.embedding`

const searchChunksStmt = `SELECT content, metadata, 1 - (embedding <=> $1) AS score
FROM ` + chunksTable + `
WHERE source_url = $2
ORDER BY embedding <=> $1 ASC
LIMIT $3`

// ChunkStore implements storage.ChunkStore on PostgreSQL with pgvector.
type ChunkStore struct {
	db        DB
	embedder  ai.Embedder
	dimension int
	logger    *slog.Logger
}

// ChunkStoreOption configures a ChunkStore.
type ChunkStoreOption func(*ChunkStore)

// WithDimension sets the embedding vector dimension.
// Default is 768. It must match the configured embedding model.
func WithDimension(dim int) ChunkStoreOption {
	return func(s *ChunkStore) {
		if dim > 0 {
			s.dimension = dim
		}
	}
}

// NewChunkStore creates the store, enabling the pgvector extension and
// ensuring the chunk table and its index exist.
//
// Returns storage.ChunkStore interface to enforce abstraction.
func NewChunkStore(ctx context.Context, db DB, embedder ai.Embedder, opts ...ChunkStoreOption) (storage.ChunkStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", core.ErrConfiguration)
	}

	s := &ChunkStore{
		db:        db,
		embedder:  embedder,
		dimension: DefaultDimension,
		logger:    slog.Default().With("component", "chunk-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ChunkStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enabling pgvector extension: %w", err)
	}

	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata JSONB,
	embedding vector(%d)
)`, chunksTable, s.dimension)
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("creating %s table: %w", chunksTable, err)
	}

	createIndex := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING ivfflat (embedding vector_cosine_ops)",
		chunksTable, chunksTable)
	if _, err := s.db.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("creating embedding index: %w", err)
	}
	return nil
}

// AddChunks embeds the chunks in one batch and upserts the vector entries
// in a single transaction. Entry IDs derive from the source URL and chunk
// content, so re-ingesting the same paper rewrites the same rows.
func (s *ChunkStore) AddChunks(ctx context.Context, sourceURL string, chunks []core.Chunk) (err error) {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks",
			storage.ErrDimensionMismatch, len(vectors), len(chunks))
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning chunk upsert: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback failed: %w; original error: %w", rbErr, err)
			}
			return
		}
		err = tx.Commit(ctx)
	}()

	for i, chunk := range chunks {
		if len(vectors[i]) != s.dimension {
			return fmt.Errorf("%w: chunk %d has dimension %d, want %d",
				storage.ErrDimensionMismatch, i, len(vectors[i]), s.dimension)
		}

		metadata, marshalErr := json.Marshal(chunk.Metadata)
		if marshalErr != nil {
			return fmt.Errorf("serializing chunk %d metadata: %w", i, marshalErr)
		}

		id := chunkID(sourceURL, chunk.Content)
		if _, execErr := tx.Exec(ctx, upsertChunkStmt,
			id, sourceURL, chunk.Content, metadata, pgvector.NewVector(vectors[i])); execErr != nil {
			return fmt.Errorf("upserting chunk %s: %w", id, execErr)
		}
	}

	s.logger.Debug("added chunks", "url", sourceURL, "count", len(chunks))
	return nil
}

// SimilaritySearch embeds the query and returns the closest chunks for the
// source URL by cosine similarity.
func (s *ChunkStore) SimilaritySearch(ctx context.Context, sourceURL, query string, limit int) ([]core.ChunkMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive (got %d)", storage.ErrInvalidQuery, limit)
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d",
			storage.ErrDimensionMismatch, len(vector), s.dimension)
	}

	rows, err := s.db.Query(ctx, searchChunksStmt, pgvector.NewVector(vector), sourceURL, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	matches := make([]core.ChunkMatch, 0, limit)
	for rows.Next() {
		var (
			content     string
			metadataRaw []byte
			score       float64
		)
		if err := rows.Scan(&content, &metadataRaw, &score); err != nil {
			return nil, fmt.Errorf("scanning chunk match: %w", err)
		}

		metadata := make(map[string]any)
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
				return nil, fmt.Errorf("deserializing chunk metadata: %w", err)
			}
		}

		matches = append(matches, core.ChunkMatch{
			Chunk: core.Chunk{Content: content, Metadata: metadata},
			Score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunk matches: %w", err)
	}

	return matches, nil
}

// chunkID derives a stable entry ID from the source URL and chunk content.
func chunkID(sourceURL, content string) string {
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(sourceURL+"\x00"+content)))
}
