package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 500, cfg.Rag.ChunkSize)
	assert.Equal(t, 50, cfg.Rag.ChunkOverlap)
	assert.Equal(t, 3, cfg.Rag.DefaultTopK)
	assert.Equal(t, 10, cfg.Session.MaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.Session.Timeout)
	assert.Equal(t, "memory", cfg.VectorStore.Kind)
	assert.Equal(t, 0.7, cfg.Ai.Temperature)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "200")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("LLM_TOP_P", "0.5")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("SESSION_MAX_HISTORY", "not-a-number")

	cfg := Load()

	assert.Equal(t, 200, cfg.Rag.ChunkSize)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 0.5, cfg.Ai.TopP)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 10, cfg.Session.MaxHistory)
}

func TestLoad_ModelDefaultsFollowProvider(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "nomic-embed-text", cfg.Ai.EmbeddingModel)
	assert.Equal(t, "qwen2.5:0.5b", cfg.Ai.LLMModel)

	t.Setenv("EMBEDDING_PROVIDER", "jina")
	t.Setenv("LLM_PROVIDER", "huggingface")
	cfg = Load()
	assert.Equal(t, "jina-embeddings-v2-base-en", cfg.Ai.EmbeddingModel)
	assert.Equal(t, "Qwen/Qwen2.5-0.5B-Instruct", cfg.Ai.LLMModel)

	t.Setenv("EMBEDDING_MODEL", "jina-embeddings-v3")
	cfg = Load()
	assert.Equal(t, "jina-embeddings-v3", cfg.Ai.EmbeddingModel)
}
