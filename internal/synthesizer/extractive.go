package synthesizer

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
)

var (
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// Extractive condenses passages by ranking their sentences on query-biased
// token frequency and keeping the best ones in original order. It is fully
// local and deterministic, so it also serves as the test-time synthesizer.
type Extractive struct {
	maxSentences int
	snippetLen   int
	stopwords    map[string]struct{}
}

// NewExtractive creates an extractive synthesizer producing at most
// maxSentences sentences, with source snippets of snippetLen characters.
func NewExtractive(maxSentences, snippetLen int) *Extractive {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	return &Extractive{
		maxSentences: maxSentences,
		snippetLen:   snippetLen,
		stopwords:    defaultStopwords(),
	}
}

// Synthesize concatenates the passages in retrieval order, scores each
// sentence by normalized token frequency (query tokens weighted double),
// and returns the top sentences in their original order. Sources preserve
// the passage order.
func (s *Extractive) Synthesize(ctx context.Context, query string, passages []models.Passage) (*models.Answer, error) {
	if len(passages) == 0 {
		return nil, errors.New("no passages to synthesize from")
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	contextText := strings.Join(texts, "\n")

	sentences := sentenceRe.FindAllString(contextText, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(contextText)}
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	queryTokens := map[string]struct{}{}
	for _, tok := range s.tokens(query) {
		queryTokens[tok] = struct{}{}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		v := 0.0
		for _, tok := range toks {
			if w, ok := freq[tok]; ok {
				v += w
			}
			if _, ok := queryTokens[tok]; ok {
				v += 1.0
			}
		}
		if n := float64(len(toks)); n > 0 {
			v /= math.Sqrt(n)
		}
		scores[i] = scored{i, v}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := s.maxSentences
	if n > len(scores) {
		n = len(scores)
	}
	selected := make([]int, n)
	for i := 0; i < n; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	parts := make([]string, 0, n)
	for _, idx := range selected {
		parts = append(parts, strings.TrimSpace(sentences[idx]))
	}

	return &models.Answer{
		Text:    strings.Join(parts, " "),
		Sources: buildSources(passages, s.snippetLen),
	}, nil
}

func (s *Extractive) tokens(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "than", "so",
		"such", "into", "about", "between", "through", "during", "before",
		"after", "out", "off", "own", "same", "too", "very", "can", "will",
		"just", "how", "what", "when", "where", "who", "do", "does", "not",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
