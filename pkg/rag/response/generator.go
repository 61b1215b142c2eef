package response

import (
	"context"
	"fmt"

	"github.com/AashishKarn828/rag-mlops/pkg/llm"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/prompt"
)

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultMaxTokens   = 256
)

// Settings holds the sampling parameters sent with every generation.
type Settings struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

func DefaultSettings() Settings {
	return Settings{
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Generator creates answers grounded on retrieved context.
type Generator struct {
	llmProvider llm.LLMProvider
	settings    Settings
}

func NewGenerator(llmProvider llm.LLMProvider, settings Settings) *Generator {
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = DefaultMaxTokens
	}
	return &Generator{
		llmProvider: llmProvider,
		settings:    settings,
	}
}

// Generate answers query from the retrieved context. history is the rendered
// conversation and may be empty.
func (g *Generator) Generate(ctx context.Context, query, retrieved, history string) (string, error) {
	messages := prompt.NewGroundedBuilder(query, retrieved, history).Messages()

	answer, err := g.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(g.settings.Temperature),
		llm.WithTopP(g.settings.TopP),
		llm.WithMaxTokens(g.settings.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

func (g *Generator) IsReady() bool {
	return g.llmProvider.IsReady()
}
