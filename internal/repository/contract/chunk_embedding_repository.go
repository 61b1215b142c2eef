package contract

import (
	"context"
	"errors"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ChunkEmbeddingRepository is the vector index used by the RAG service.
// Search returns at most topK hits ordered by descending score.
type ChunkEmbeddingRepository interface {
	Upsert(ctx context.Context, chunks []*entity.ChunkEmbedding) error
	Search(ctx context.Context, vector []float32, topK int) ([]*entity.ScoredChunk, error)
	Count(ctx context.Context) (int64, error)
	IsReady() bool
}
