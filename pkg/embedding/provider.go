package embedding

import (
	"context"
	"errors"
	"math"
)

var (
	ErrNotReady      = errors.New("embedding model not ready")
	ErrCountMismatch = errors.New("embedding count does not match input count")
)

// EmbeddingProvider turns texts into fixed-length vectors, one per input, in input order.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	IsReady() bool
}

// Warmer is implemented by providers that need a startup step before serving.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// normalizeVector scales vec to unit length so cosine similarity reduces to a dot product.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
