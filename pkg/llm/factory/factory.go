package factory

import (
	"fmt"

	"github.com/AashishKarn828/rag-mlops/pkg/llm"
	"github.com/AashishKarn828/rag-mlops/pkg/llm/huggingface"
	"github.com/AashishKarn828/rag-mlops/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama", "":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
