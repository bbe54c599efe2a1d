package services

import (
	"fmt"
	"strings"

	"github.com/vectormind/ragserver/models"
)

// SystemPrompt is the fixed instruction given to the model for every query.
const SystemPrompt = "You are a helpful assistant that answers questions about a local codebase and files. " +
	"Use only the provided context. When useful, mention file paths and approximate locations."

// NoContextAnswer is returned when retrieval finds nothing for a question.
// The model is not called in that case.
const NoContextAnswer = "I couldn't find anything relevant in the indexed files."

// BuildUserPrompt assembles the question and retrieved excerpts into the
// prompt sent to the generator.
func BuildUserPrompt(question string, docs []models.SourceDocument) string {
	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("File: %s (chunk %d)\n%s\n", doc.Path, doc.Chunk, doc.Text))
	}
	context := strings.Join(blocks, "\n\n---\n\n")

	return fmt.Sprintf(`
User question:
%s

Relevant file excerpts:
%s

Using ONLY the information above, answer the question concisely.
If the answer isn't clear from the context, say you are unsure rather than guessing.
`, question, context)
}
