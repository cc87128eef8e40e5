package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
)

// DefaultSystemTemplate instructs the model to answer only from the
// provided passages.
const DefaultSystemTemplate = "You are a helpful assistant. Answer the question using only the provided document passages. Be concise. If the passages do not contain the answer, say so."

// LLMConfig configures the generative synthesizer.
type LLMConfig struct {
	Model          string
	BaseURL        string
	Temperature    float64
	MaxTokens      int
	SystemTemplate string
	SnippetLength  int
}

// LLM synthesizes answers with a locally served chat model (ollama). The
// model client is created once and reused for every call.
type LLM struct {
	config LLMConfig
	model  llms.Model
}

// NewLLM creates a generative synthesizer with the given configuration.
func NewLLM(config LLMConfig) (*LLM, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1, got %v", config.Temperature)
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 512
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = DefaultSystemTemplate
	}

	model, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM: %w", err)
	}
	return &LLM{config: config, model: model}, nil
}

// Synthesize prompts the model with the query and the passages in retrieval
// order. Sources preserve the passage order regardless of what the model
// generates.
func (l *LLM) Synthesize(ctx context.Context, query string, passages []models.Passage) (*models.Answer, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("no passages to synthesize from")
	}

	var contextBuilder strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&contextBuilder, "Passage %d (document %s):\n%s\n\n", i+1, p.DocumentID, p.Text)
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, l.config.SystemTemplate),
		llms.TextParts(schema.ChatMessageTypeHuman, fmt.Sprintf("%s\nQuestion: %s", contextBuilder.String(), query)),
	}

	response, err := l.model.GenerateContent(ctx, content,
		llms.WithTemperature(l.config.Temperature),
		llms.WithMaxTokens(l.config.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	return &models.Answer{
		Text:    strings.TrimSpace(response.Choices[0].Content),
		Sources: buildSources(passages, l.config.SnippetLength),
	}, nil
}
