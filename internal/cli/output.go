// Package cli provides output formatting for the chatbot CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
)

// AnswerOutputFormat is the format for answer output.
type AnswerOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText AnswerOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON AnswerOutputFormat = "json"
)

// WriteAnswer writes an answer and its sources to w in the given format.
// Sources are printed in the order they arrive, which is ascending
// retrieval distance.
func WriteAnswer(w io.Writer, answer *models.Answer, format AnswerOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	default:
		writeAnswerText(w, answer)
		return nil
	}
}

func writeAnswerText(w io.Writer, answer *models.Answer) {
	fmt.Fprintln(w, answer.Text)
	if len(answer.Sources) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	for i, src := range answer.Sources {
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, src.DocumentID, src.Snippet)
	}
}
