// Package synthesizer condenses retrieved passages into a cited answer.
package synthesizer

import (
	"context"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
	"github.com/baudhigan/AI-driven-Chatbot/pkg/utils"
)

// Synthesizer produces an answer from a query and its retrieved passages.
// Implementations must keep the returned Sources in exactly the passage
// order they were given: passages arrive ranked by relevance and the
// citation order is the user-visible relevance signal.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, passages []models.Passage) (*models.Answer, error)
}

// buildSources converts passages to citations, preserving order. Snippets
// are bounded-length prefixes of the passage text.
func buildSources(passages []models.Passage, snippetLen int) []models.Source {
	sources := make([]models.Source, len(passages))
	for i, p := range passages {
		sources[i] = models.Source{
			DocumentID: p.DocumentID,
			Snippet:    utils.Snippet(p.Text, snippetLen),
		}
	}
	return sources
}
