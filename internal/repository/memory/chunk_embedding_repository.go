package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"

	"github.com/google/uuid"
)

// ChunkEmbeddingRepository is a brute-force cosine index held in process
// memory. Hits with equal scores keep insertion order.
type ChunkEmbeddingRepository struct {
	mu        sync.RWMutex
	order     []uuid.UUID
	chunks    map[uuid.UUID]*entity.ChunkEmbedding
	dimension int
}

func NewChunkEmbeddingRepository(dimension int) *ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepository{
		chunks:    make(map[uuid.UUID]*entity.ChunkEmbedding),
		dimension: dimension,
	}
}

var _ contract.ChunkEmbeddingRepository = (*ChunkEmbeddingRepository)(nil)

func (r *ChunkEmbeddingRepository) IsReady() bool { return true }

func (r *ChunkEmbeddingRepository) checkDimension(vector []float32) error {
	if r.dimension > 0 && len(vector) != r.dimension {
		return fmt.Errorf("%w: got %d, want %d", contract.ErrDimensionMismatch, len(vector), r.dimension)
	}
	return nil
}

func (r *ChunkEmbeddingRepository) Upsert(_ context.Context, chunks []*entity.ChunkEmbedding) error {
	for _, c := range chunks {
		if err := r.checkDimension(c.Vector); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range chunks {
		stored := *c
		stored.Vector = append([]float32(nil), c.Vector...)
		if _, exists := r.chunks[c.Id]; !exists {
			r.order = append(r.order, c.Id)
		}
		r.chunks[c.Id] = &stored
	}
	return nil
}

func (r *ChunkEmbeddingRepository) Search(_ context.Context, vector []float32, topK int) ([]*entity.ScoredChunk, error) {
	if topK <= 0 {
		return []*entity.ScoredChunk{}, nil
	}
	if err := r.checkDimension(vector); err != nil {
		return nil, err
	}

	r.mu.RLock()
	results := make([]*entity.ScoredChunk, 0, len(r.order))
	for _, id := range r.order {
		c := r.chunks[id]
		results = append(results, &entity.ScoredChunk{
			Text:       c.Text,
			SourceName: c.SourceName,
			ChunkIndex: c.ChunkIndex,
			Score:      cosineSimilarity(vector, c.Vector),
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (r *ChunkEmbeddingRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.chunks)), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
