package memory

import (
	"context"
	"testing"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(text string, idx int, vec ...float32) *entity.ChunkEmbedding {
	return &entity.ChunkEmbedding{
		Id:         uuid.New(),
		Vector:     vec,
		Text:       text,
		SourceName: "doc.txt",
		ChunkIndex: idx,
	}
}

func TestChunkEmbeddingRepository_SearchOrdersByScore(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkEmbeddingRepository(2)

	require.NoError(t, repo.Upsert(ctx, []*entity.ChunkEmbedding{
		chunk("east", 0, 1, 0),
		chunk("north", 1, 0, 1),
		chunk("north-east", 2, 1, 1),
	}))

	hits, err := repo.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "north", hits[0].Text)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "north-east", hits[1].Text)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestChunkEmbeddingRepository_UpsertReplacesById(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkEmbeddingRepository(0)

	c := chunk("v1", 0, 1, 0)
	require.NoError(t, repo.Upsert(ctx, []*entity.ChunkEmbedding{c}))
	c.Text = "v2"
	require.NoError(t, repo.Upsert(ctx, []*entity.ChunkEmbedding{c}))

	hits, err := repo.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v2", hits[0].Text)
}

func TestChunkEmbeddingRepository_EmptyAndDimension(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkEmbeddingRepository(3)

	hits, err := repo.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	err = repo.Upsert(ctx, []*entity.ChunkEmbedding{chunk("bad", 0, 1, 0)})
	assert.ErrorIs(t, err, contract.ErrDimensionMismatch)

	_, err = repo.Search(ctx, []float32{1}, 3)
	assert.ErrorIs(t, err, contract.ErrDimensionMismatch)
}
