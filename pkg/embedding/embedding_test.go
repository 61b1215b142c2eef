package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls [][]string
	err   error
}

func (p *countingProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	p.calls = append(p.calls, append([]string(nil), texts...))
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (p *countingProvider) IsReady() bool { return true }

func TestCachedProvider_ForwardsOnlyMisses(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, NewMemoryCache(time.Minute), "model-a")
	ctx := context.Background()

	first, err := p.Embed(ctx, []string{"alpha", "be"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{5, 1}, {2, 1}}, first)

	second, err := p.Embed(ctx, []string{"be", "gamma", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2, 1}, {5, 1}, {5, 1}}, second)

	require.Len(t, inner.calls, 2)
	assert.Equal(t, []string{"gamma"}, inner.calls[1])

	_, err = p.Embed(ctx, []string{"alpha"})
	require.NoError(t, err)
	assert.Len(t, inner.calls, 2)
}

func TestCachedProvider_PropagatesErrors(t *testing.T) {
	boom := errors.New("model offline")
	p := NewCachedProvider(&countingProvider{err: boom}, NewMemoryCache(time.Minute), "m")

	_, err := p.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []float32{1, 2}))

	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	v[0] = 99

	again, _ := c.Get(ctx, "k")
	assert.Equal(t, []float32{1, 2}, again)
}

func TestOllamaProvider_EmbedNormalizesAndMarksReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req ollamaEmbedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		resp := ollamaEmbedResponse{}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{3, 4})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	assert.False(t, p.IsReady())

	vectors, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.6, vectors[0][0], 1e-6)
	assert.InDelta(t, 0.8, vectors[1][1], 1e-6)
	assert.True(t, p.IsReady())
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	err := p.Warmup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.False(t, p.IsReady())
}

func TestNormalizeVector(t *testing.T) {
	v := normalizeVector([]float32{1, 2, 2})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
