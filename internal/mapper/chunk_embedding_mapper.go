package mapper

import (
	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(e *model.ChunkEmbedding) *entity.ChunkEmbedding {
	if e == nil {
		return nil
	}

	return &entity.ChunkEmbedding{
		Id:         e.Id,
		Vector:     e.EmbeddingValue.Slice(),
		Text:       e.Document,
		SourceName: e.SourceName,
		ChunkIndex: e.ChunkIndex,
		Metadata:   map[string]interface{}(e.Metadata),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModel(e *entity.ChunkEmbedding) *model.ChunkEmbedding {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSONMap
	if len(e.Metadata) > 0 {
		metadata = datatypes.JSONMap(e.Metadata)
	}

	return &model.ChunkEmbedding{
		Id:             e.Id,
		Document:       e.Text,
		EmbeddingValue: pgvector.NewVector(e.Vector),
		SourceName:     e.SourceName,
		ChunkIndex:     e.ChunkIndex,
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModels(chunks []*entity.ChunkEmbedding) []*model.ChunkEmbedding {
	models := make([]*model.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

// ToScored converts a row plus its computed similarity into a search hit.
func (m *ChunkEmbeddingMapper) ToScored(e *model.ChunkEmbedding, similarity float64) *entity.ScoredChunk {
	return &entity.ScoredChunk{
		Text:       e.Document,
		SourceName: e.SourceName,
		ChunkIndex: e.ChunkIndex,
		Score:      similarity,
	}
}
