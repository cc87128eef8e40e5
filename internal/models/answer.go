package models

// Passage is a retrieved chunk with its distance to the query vector.
// Smaller distance means more relevant.
type Passage struct {
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Distance   float32 `json:"distance"`
}

// Source cites the origin of a passage that contributed to an answer.
// Snippet is a bounded-length prefix of the passage text.
type Source struct {
	DocumentID string `json:"document_id"`
	Snippet    string `json:"snippet"`
}

// Answer is a synthesized answer with its cited sources. Sources preserve
// the retrieval ranking order; rank order is the user-visible relevance
// signal and must never be reordered.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources"`
}
