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
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/storage"
)

const createAnswersTable = `CREATE TABLE IF NOT EXISTS ` + answersTable + ` (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	source_url TEXT NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	inserted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`

// AnswerRepository implements storage.AnswerRepository on PostgreSQL.
type AnswerRepository struct {
	db     DB
	logger *slog.Logger
}

// NewAnswerRepository creates the repository and ensures its table exists.
//
// Returns storage.AnswerRepository interface to enforce abstraction.
func NewAnswerRepository(ctx context.Context, db DB) (storage.AnswerRepository, error) {
	if _, err := db.Exec(ctx, createAnswersTable); err != nil {
		return nil, fmt.Errorf("creating %s table: %w", answersTable, err)
	}
	return &AnswerRepository{
		db:     db,
		logger: slog.Default().With("component", "answer-repository"),
	}, nil
}

// AddAnswer inserts one QA record.
func (r *AnswerRepository) AddAnswer(ctx context.Context, answer *core.Answer) (*core.Answer, error) {
	if answer == nil {
		return nil, fmt.Errorf("%w: answer is nil", storage.ErrInvalidQuery)
	}

	query, args, err := squirrel.Insert(answersTable).
		Columns("source_url", "question", "answer").
		Values(answer.SourceURL, answer.Question, answer.Answer).
		Suffix("RETURNING id, inserted_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}

	inserted := *answer
	if err := r.db.QueryRow(ctx, query, args...).Scan(&inserted.ID, &inserted.InsertedAt); err != nil {
		return nil, fmt.Errorf("inserting answer: %w", err)
	}

	r.logger.Debug("added answer", "id", inserted.ID, "url", inserted.SourceURL)
	return &inserted, nil
}
