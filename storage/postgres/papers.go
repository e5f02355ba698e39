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

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
)

const createPapersTable = `CREATE TABLE IF NOT EXISTS ` + papersTable + ` (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	source_url TEXT NOT NULL,
	name TEXT NOT NULL,
	notes JSONB NOT NULL DEFAULT '[]',
	full_text TEXT NOT NULL DEFAULT '',
	inserted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`

// PaperRepository implements storage.PaperRepository on PostgreSQL.
type PaperRepository struct {
	db     DB
	logger *slog.Logger
}

// NewPaperRepository creates the repository and ensures its table exists.
//
// Returns storage.PaperRepository interface to enforce abstraction.
func NewPaperRepository(ctx context.Context, db DB) (storage.PaperRepository, error) {
	if _, err := db.Exec(ctx, createPapersTable); err != nil {
		return nil, fmt.Errorf("creating %s table: %w", papersTable, err)
	}
	return &PaperRepository{
		db:     db,
		logger: slog.Default().With("component", "paper-repository"),
	}, nil
}

// AddPaper inserts one paper record. Notes are serialized as JSONB keyed by
// field name and the insert names every column explicitly.
func (r *PaperRepository) AddPaper(ctx context.Context, paper *core.Paper) (*core.Paper, error) {
	if paper == nil {
		return nil, fmt.Errorf("%w: paper is nil", storage.ErrInvalidQuery)
	}

	notesJSON, err := json.Marshal(notesOrEmpty(paper.Notes))
	if err != nil {
		return nil, fmt.Errorf("serializing notes: %w", err)
	}

	query, args, err := squirrel.Insert(papersTable).
		Columns("source_url", "name", "notes", "full_text").
		Values(paper.SourceURL, paper.Name, notesJSON, paper.FullText).
		Suffix("RETURNING id, inserted_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}

	inserted := *paper
	if err := r.db.QueryRow(ctx, query, args...).Scan(&inserted.ID, &inserted.InsertedAt); err != nil {
		return nil, fmt.Errorf("inserting paper: %w", err)
	}

	r.logger.Debug("added paper", "id", inserted.ID, "url", inserted.SourceURL, "notes", len(inserted.Notes))
	return &inserted, nil
}

// GetPaperByURL retrieves the most recently inserted record for the URL.
func (r *PaperRepository) GetPaperByURL(ctx context.Context, sourceURL string) (*core.Paper, error) {
	query, args, err := squirrel.Select("id", "source_url", "name", "notes", "full_text", "inserted_at").
		From(papersTable).
		Where(squirrel.Eq{"source_url": sourceURL}).
		OrderBy("inserted_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var paper core.Paper
	var notesJSON []byte
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&paper.ID, &paper.SourceURL, &paper.Name, &notesJSON, &paper.FullText, &paper.InsertedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no paper for %s", storage.ErrNotFound, sourceURL)
	}
	if err != nil {
		return nil, fmt.Errorf("querying paper: %w", err)
	}

	if err := json.Unmarshal(notesJSON, &paper.Notes); err != nil {
		return nil, fmt.Errorf("deserializing notes: %w", err)
	}
	return &paper, nil
}

// notesOrEmpty keeps the serialized form a JSON array even for nil input.
func notesOrEmpty(notes []core.Note) []core.Note {
	if notes == nil {
		return []core.Note{}
	}
	return notes
}
