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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/papernotes"
	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/retry"
	"github.com/poiesic/papernotes/server"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional; flags and real environment win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "papernotes",
		Usage: "Scholarly paper ingestion, note extraction, and question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the ingestion and QA API over HTTP",
				Action: serveCommand,
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "HTTP listen address",
						Value:   ":8080",
						EnvVars: []string{"PAPERNOTES_ADDR"},
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest one paper and print its extracted notes",
				Action: ingestCommand,
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Source URL of the paper PDF",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name for the paper",
					},
					&cli.IntSliceFlag{
						Name:  "exclude-page",
						Usage: "1-indexed page number to remove before partitioning (repeatable)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for the whole ingestion run",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Ask a question about an ingested paper",
				Action: searchCommand,
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Source URL of the ingested paper",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "question",
						Usage:    "Question to answer from the paper",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// configFlags are the service flags shared by every command.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "postgres-dsn",
			Usage:    "PostgreSQL connection string",
			EnvVars:  []string{"DATABASE_URL"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "unstructured-api-key",
			Usage:    "API key for the partitioning service",
			EnvVars:  []string{"UNSTRUCTURED_API_KEY"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "unstructured-api-url",
			Usage:   "Base URL of the partitioning service",
			EnvVars: []string{"UNSTRUCTURED_API_URL"},
		},
		&cli.StringFlag{
			Name:    "strategy",
			Usage:   "Partitioning strategy (hi_res, fast, auto)",
			EnvVars: []string{"PARTITION_STRATEGY"},
		},
		&cli.StringFlag{
			Name:    "model-host",
			Usage:   "OpenAI-compatible model host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"MODEL_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Model used for note extraction and answering",
			Value:   "mixtral",
			EnvVars: []string{"CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Model used for text embeddings",
			Value:   "mistrallite",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API credential for the model host",
			EnvVars: []string{"MODEL_API_TOKEN"},
		},
		&cli.IntFlag{
			Name:    "embedding-dimension",
			Usage:   "Vector dimension of the embedding model",
			Value:   768,
			EnvVars: []string{"EMBEDDING_DIMENSION"},
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Maximum chunk length in characters",
			Value: 300,
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Characters carried over between adjacent chunks",
			Value: 30,
		},
		&cli.IntFlag{
			Name:  "match-limit",
			Usage: "Chunks retrieved per question",
			Value: 8,
		},
		&cli.DurationFlag{
			Name:  "fetch-timeout",
			Usage: "Deadline for downloading the PDF",
			Value: 60 * time.Second,
		},
		&cli.DurationFlag{
			Name:  "partition-timeout",
			Usage: "Deadline for the partitioning call",
			Value: 5 * time.Minute,
		},
		&cli.DurationFlag{
			Name:  "extract-timeout",
			Usage: "Deadline for the note extraction call",
			Value: 10 * time.Minute,
		},
		&cli.DurationFlag{
			Name:  "persist-timeout",
			Usage: "Deadline for the dual write",
			Value: 2 * time.Minute,
		},
	}
}

// buildConfig assembles the service config from CLI flags.
func buildConfig(c *cli.Context) *papernotes.Config {
	cfg := papernotes.DefaultConfig()
	cfg.PostgresDSN = c.String("postgres-dsn")
	cfg.PartitionAPIKey = c.String("unstructured-api-key")
	if url := c.String("unstructured-api-url"); url != "" {
		cfg.PartitionBaseURL = url
	}
	if strategy := c.String("strategy"); strategy != "" {
		cfg.PartitionStrategy = strategy
	}
	cfg.AI = ai.NewConfig(
		ai.WithHost(c.String("model-host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(c.String("api-token")),
	)
	cfg.ChunkSize = c.Int("chunk-size")
	cfg.ChunkOverlap = c.Int("chunk-overlap")
	cfg.EmbeddingDimension = c.Int("embedding-dimension")
	cfg.MatchLimit = c.Int("match-limit")
	cfg.FetchTimeout = c.Duration("fetch-timeout")
	cfg.PartitionTimeout = c.Duration("partition-timeout")
	cfg.ExtractTimeout = c.Duration("extract-timeout")
	cfg.PersistTimeout = c.Duration("persist-timeout")
	return cfg
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := papernotes.NewService(ctx, buildConfig(c))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	srv, err := server.New(service.Pipeline(), service.Searcher())
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	return srv.Run(c.String("addr"))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	maxRetries := c.Int("max-retries")
	if maxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	service, err := papernotes.NewService(ctx, buildConfig(c))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	ref := core.DocumentReference{
		SourceURL:     c.String("url"),
		Name:          c.String("name"),
		ExcludedPages: c.IntSlice("exclude-page"),
	}
	if ref.Name == "" {
		ref.Name = ref.SourceURL
	}

	var paper *core.Paper
	err = retry.Do(ctx, func() error {
		var runErr error
		paper, runErr = service.Pipeline().Ingest(ctx, ref)
		return runErr
	}, maxRetries, c.Duration("retry-delay"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %q (record %d, %d notes)\n", paper.Name, paper.ID, len(paper.Notes))
	return printJSON(paper.Notes)
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := papernotes.NewService(ctx, buildConfig(c))
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer service.Close()

	answer, err := service.Searcher().Answer(ctx, c.String("url"), c.String("question"))
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	fmt.Println(answer.Answer)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
