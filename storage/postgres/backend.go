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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/papernotes/core"
)

// Table names. They mirror the original arXiv ingestion schema.
const (
	papersTable  = "arxiv_papers"
	chunksTable  = "arxiv_embeddings"
	answersTable = "arxiv_question_answering"
)

// DB is the minimal pgx surface the repositories need. *pgxpool.Pool
// satisfies it; tests may substitute a fake.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Backend owns the connection pool shared by all repositories.
type Backend struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to PostgreSQL and verifies the connection.
// The DSN is required; a missing DSN is core.ErrConfiguration.
func Open(ctx context.Context, dsn string) (*Backend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: database DSN is required", core.ErrConfiguration)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Backend{
		pool:   pool,
		logger: slog.Default().With("component", "postgres-backend"),
	}, nil
}

// DB returns the shared connection pool.
func (b *Backend) DB() DB {
	return b.pool
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	b.logger.Debug("closing postgres backend")
	b.pool.Close()
	return nil
}
