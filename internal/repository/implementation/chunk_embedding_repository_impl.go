package implementation

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/mapper"
	"github.com/AashishKarn828/rag-mlops/internal/model"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

type ChunkEmbeddingRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.ChunkEmbeddingMapper
	dimension int
	ready     atomic.Bool
}

func NewChunkEmbeddingRepository(db *gorm.DB, dimension int) *ChunkEmbeddingRepositoryImpl {
	return &ChunkEmbeddingRepositoryImpl{
		db:        db,
		mapper:    mapper.NewChunkEmbeddingMapper(),
		dimension: dimension,
	}
}

var _ contract.ChunkEmbeddingRepository = (*ChunkEmbeddingRepositoryImpl)(nil)

// Init enables the vector extension and migrates the chunk table.
func (r *ChunkEmbeddingRepositoryImpl) Init(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	if err := db.AutoMigrate(&model.ChunkEmbedding{}); err != nil {
		return fmt.Errorf("migrate chunk_embeddings: %w", err)
	}
	r.ready.Store(true)
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) IsReady() bool {
	return r.ready.Load()
}

func (r *ChunkEmbeddingRepositoryImpl) checkDimension(vector []float32) error {
	if r.dimension > 0 && len(vector) != r.dimension {
		return fmt.Errorf("%w: got %d, want %d", contract.ErrDimensionMismatch, len(vector), r.dimension)
	}
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) Upsert(ctx context.Context, chunks []*entity.ChunkEmbedding) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, c := range chunks {
		if err := r.checkDimension(c.Vector); err != nil {
			return err
		}
	}

	models := r.mapper.ToModels(chunks)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(models, upsertBatchSize).Error
	})
}

func (r *ChunkEmbeddingRepositoryImpl) Search(ctx context.Context, vector []float32, topK int) ([]*entity.ScoredChunk, error) {
	if topK <= 0 {
		return []*entity.ScoredChunk{}, nil
	}
	if err := r.checkDimension(vector); err != nil {
		return nil, err
	}

	// pgvector cosine distance is 1 - cosine similarity
	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)
	err := r.db.WithContext(ctx).
		Table(model.ChunkEmbedding{}.TableName()).
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) AS similarity", queryVector).
		Order(clause.Expr{SQL: "embedding_value <=> ?", Vars: []interface{}{queryVector}}).
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i := range results {
		scored[i] = r.mapper.ToScored(&results[i].ChunkEmbedding, results[i].Similarity)
	}
	return scored, nil
}

func (r *ChunkEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ChunkEmbedding{}).Count(&count).Error
	return count, err
}
