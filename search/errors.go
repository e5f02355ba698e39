package search

import "errors"

var (
	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrPaperRepositoryRequired is returned when a paper repository is not provided.
	ErrPaperRepositoryRequired = errors.New("paper repository required")

	// ErrAnswerRepositoryRequired is returned when an answer repository is not provided.
	ErrAnswerRepositoryRequired = errors.New("answer repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuestion is returned when the question is empty or whitespace.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrPaperNotIngested is returned when no paper record exists for the URL.
	ErrPaperNotIngested = errors.New("paper has not been ingested")
)
