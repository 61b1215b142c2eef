package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// OllamaProvider implements EmbeddingProvider against a local Ollama server
// (e.g. nomic-embed-text, bge-small).
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client

	ready atomic.Bool
}

var (
	_ EmbeddingProvider = (*OllamaProvider)(nil)
	_ Warmer            = (*OllamaProvider)(nil)
)

func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Warmup embeds a probe text so the model is loaded before the first request.
func (p *OllamaProvider) Warmup(ctx context.Context) error {
	if _, err := p.embed(ctx, []string{"warmup"}); err != nil {
		return err
	}
	p.ready.Store(true)
	return nil
}

func (p *OllamaProvider) IsReady() bool {
	return p.ready.Load()
}

func (p *OllamaProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := p.embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	p.ready.Store(true)
	return vectors, nil
}

func (p *OllamaProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	jsonBody, err := json.Marshal(ollamaEmbedRequest{Model: p.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/embed", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embedding error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp ollamaEmbedResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(ollamaResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(ollamaResp.Embeddings), len(texts))
	}

	// Ollama returns float64; the rest of the system works in float32
	vectors := make([][]float32, len(ollamaResp.Embeddings))
	for i, embedding := range ollamaResp.Embeddings {
		values := make([]float32, len(embedding))
		for j, v := range embedding {
			values[j] = float32(v)
		}
		vectors[i] = normalizeVector(values)
	}

	return vectors, nil
}
