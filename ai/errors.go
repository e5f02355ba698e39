package ai

import (
	"fmt"

	"github.com/poiesic/papernotes/core"
)

var (
	// ErrNoToolCall indicates the model response carried no structured
	// function-call payload.
	ErrNoToolCall = fmt.Errorf("%w: no structured response", core.ErrExtraction)

	// ErrMalformedPayload indicates the structured payload could not be
	// isolated or parsed into notes.
	ErrMalformedPayload = fmt.Errorf("%w: malformed payload", core.ErrExtraction)
)
