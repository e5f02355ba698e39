package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/papernotes/core"
	"github.com/tmc/langchaingo/llms"
)

// notesToolName is the single function the model is forced to call when
// extracting notes.
const notesToolName = "formatNotes"

const notePromptTemplate = `Take notes on the following scientific paper.
This is a technical paper outlining a computer science technique.
The goal is to be able to create a complete understanding of the paper after reading all notes.

Rules:
- Include specific quotes and details inside your notes.
- Respond with as many notes as it might take to cover the entire paper.
- Go into as much detail as you can, while keeping each note on a very specific part of the paper.
- Include notes about the results of any experiments the paper describes.
- Include notes about any steps to reproduce the results of the experiments.
- DO NOT respond with notes like: "The author discusses how well XYZ works.", instead explain what XYZ is and how it works.

Respond with a JSON array of objects with two keys: "text" and "pageNumbers".
"text" will be the specific note, and "pageNumbers" will be an array of numbers (empty if the note has no page attribution).
Take a deep breath, and work your way through the paper step by step.

Paper: %s`

const answerPromptTemplate = `Answer the question using only the provided paper excerpts and notes.
If the answer is not contained in them, say you do not know. Be precise and quote the paper where helpful.

Excerpts:
%s

Notes:
%s

Question: %s`

// notesTools declares the formatNotes function schema:
// { notes: [ { text: string, pageNumbers: [number] } ] }.
var notesTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        notesToolName,
			Description: "Format the notes response",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"notes": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"text": map[string]any{
									"type":        "string",
									"description": "The specific note",
								},
								"pageNumbers": map[string]any{
									"type":        "array",
									"description": "The page number(s) of the note",
									"items":       map[string]any{"type": "number"},
								},
							},
							"required": []string{"text", "pageNumbers"},
						},
					},
				},
				"required": []string{"notes"},
			},
		},
	},
}

// buildNotePrompt substitutes the paper text into the note instruction template.
func buildNotePrompt(paperText string) string {
	return fmt.Sprintf(notePromptTemplate, paperText)
}

// buildAnswerPrompt assembles the QA prompt from retrieved excerpts and
// previously extracted notes.
func buildAnswerPrompt(question string, contexts []string, notes []core.Note) string {
	noteLines := make([]string, 0, len(notes))
	for _, note := range notes {
		noteLines = append(noteLines, "- "+note.Text)
	}
	return fmt.Sprintf(answerPromptTemplate,
		strings.Join(contexts, "\n---\n"),
		strings.Join(noteLines, "\n"),
		question)
}
