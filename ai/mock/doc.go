// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks run without external AI services and default to deterministic
// behavior: MockEmbedder derives vectors from a text hash, MockNoteExtractor
// emits one note per sentence, and MockAnswerer echoes the question. Custom
// behavior is injected through the exported ...Func fields.
package mock
