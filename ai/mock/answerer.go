package mock

import (
	"context"

	"github.com/poiesic/papernotes/core"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, uses default behavior.
	AnswerFunc func(ctx context.Context, question string, contexts []string, notes []core.Note) (string, error)

	callCount int
}

// NewMockAnswerer creates a mock answerer with default behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a canned answer referencing the question.
func (m *MockAnswerer) Answer(ctx context.Context, question string, contexts []string, notes []core.Note) (string, error) {
	m.callCount++

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, contexts, notes)
	}

	return "mock answer to: " + question, nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount = 0
	m.AnswerFunc = nil
}
