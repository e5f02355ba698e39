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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/papernotes/ai"
	"github.com/poiesic/papernotes/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// NoteExtractor implements ai.NoteExtractor using OpenAI-compatible chat APIs.
type NoteExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newNoteExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newNoteExtractor(config *ai.Config) (*NoteExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &NoteExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-note-extractor"),
	}, nil
}

// NewNoteExtractor creates a new note extractor using the provided configuration.
//
// Returns ai.NoteExtractor interface to enforce abstraction.
func NewNoteExtractor(config *ai.Config) (ai.NoteExtractor, error) {
	return newNoteExtractor(config)
}

// ExtractNotes asks the model for notes covering the paper, forcing the
// response through the formatNotes function with zero sampling temperature.
// The raw argument payload is isolated and strictly decoded; a response
// without a function-call payload is ai.ErrNoToolCall and an unparsable
// payload is ai.ErrMalformedPayload. No retries happen here — the caller
// owns any retry policy.
func (e *NoteExtractor) ExtractNotes(ctx context.Context, paperText string) ([]core.Note, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildNotePrompt(paperText)),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithTools(notesTools),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: notesToolName},
		}),
	)
	if err != nil {
		e.logger.Error("failed to generate notes", "err", err)
		return nil, fmt.Errorf("generating notes: %w", err)
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return nil, ai.ErrNoToolCall
	}

	args, err := toolArguments(response.Choices[0])
	if err != nil {
		return nil, err
	}

	notes, err := parseNotes(args)
	if err != nil {
		e.logger.Warn("error parsing notes payload", "arguments", args, "err", err)
		return nil, err
	}

	e.logger.Debug("extracted notes", "count", len(notes))
	return notes, nil
}

// toolArguments pulls the formatNotes argument string out of a model choice.
// Both the tools API shape and the legacy function_call shape are accepted.
func toolArguments(choice *llms.ContentChoice) (string, error) {
	for _, call := range choice.ToolCalls {
		if call.FunctionCall != nil && call.FunctionCall.Arguments != "" {
			return call.FunctionCall.Arguments, nil
		}
	}
	if choice.FuncCall != nil && choice.FuncCall.Arguments != "" {
		return choice.FuncCall.Arguments, nil
	}
	return "", ai.ErrNoToolCall
}
