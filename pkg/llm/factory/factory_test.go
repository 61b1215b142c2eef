package factory

import (
	"testing"

	"github.com/AashishKarn828/rag-mlops/pkg/llm/huggingface"
	"github.com/AashishKarn828/rag-mlops/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("", "qwen2.5:0.5b", "", "")
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider("huggingface", "meta-llama/Llama-3.2-1B-Instruct", "", "hf_token")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	_, err = NewLLMProvider("openai", "gpt", "", "")
	assert.Error(t, err)
}
