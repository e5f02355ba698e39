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


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/papernotes/core"
	"github.com/poiesic/papernotes/partition"
	"github.com/poiesic/papernotes/search"
)

var (
	// ErrIngestorRequired is returned when an ingestor is not provided.
	ErrIngestorRequired = errors.New("ingestor required")

	// ErrAnswererRequired is returned when an answerer is not provided.
	ErrAnswererRequired = errors.New("answerer required")
)

// Ingestor runs one paper ingestion. *ingestion.Pipeline satisfies it.
type Ingestor interface {
	Ingest(ctx context.Context, ref core.DocumentReference) (*core.Paper, error)
}

// Answerer answers a question about an ingested paper.
// *search.Searcher satisfies it.
type Answerer interface {
	Answer(ctx context.Context, sourceURL, question string) (*core.Answer, error)
}

// Server is the HTTP surface over the pipeline and searcher.
type Server struct {
	engine   *gin.Engine
	ingestor Ingestor
	answerer Answerer
	logger   *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets a custom logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates the HTTP server and registers its routes.
func New(ingestor Ingestor, answerer Answerer, opts ...ServerOption) (*Server, error) {
	if ingestor == nil {
		return nil, ErrIngestorRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}

	s := &Server{
		ingestor: ingestor,
		answerer: answerer,
		logger:   slog.Default().With("component", "http-server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/", s.handleLiveness)
	engine.POST("/take_notes", s.handleTakeNotes)
	engine.POST("/qa", s.handleQA)
	s.engine = engine

	return s, nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.engine.Run(addr)
}

type takeNotesRequest struct {
	PaperURL      string `json:"paperUrl" binding:"required,url"`
	Name          string `json:"name" binding:"required"`
	PagesToDelete []int  `json:"pagesToDelete"`
}

type qaRequest struct {
	PaperURL string `json:"paperUrl" binding:"required,url"`
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTakeNotes(c *gin.Context) {
	var req takeNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paper, err := s.ingestor.Ingest(c.Request.Context(), core.DocumentReference{
		SourceURL:     req.PaperURL,
		Name:          req.Name,
		ExcludedPages: req.PagesToDelete,
	})
	if err != nil {
		status := statusFor(err)
		s.logger.Error("ingestion failed", "url", req.PaperURL, "status", status, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, paper.Notes)
}

func (s *Server) handleQA(c *gin.Context) {
	var req qaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.answerer.Answer(c.Request.Context(), req.PaperURL, req.Question)
	if err != nil {
		status := statusFor(err)
		s.logger.Error("answering failed", "url", req.PaperURL, "status", status, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer.Answer})
}

// statusFor maps domain errors to HTTP status codes. Anything persistence
// related, partial included, stays 500: a half-written paper must never
// look like success to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrMalformedDocument),
		errors.Is(err, core.ErrInvalidPageNumber):
		return http.StatusUnprocessableEntity
	case errors.Is(err, search.ErrPaperNotIngested):
		return http.StatusNotFound
	case errors.Is(err, search.ErrEmptyQuestion),
		errors.Is(err, core.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFetch),
		errors.Is(err, core.ErrExtraction),
		errors.Is(err, partition.ErrPartition):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
