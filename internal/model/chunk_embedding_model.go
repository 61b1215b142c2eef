package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Document       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector;not null"` // dimension is enforced by the repository
	SourceName     string          `gorm:"type:varchar(512);not null;index"`
	ChunkIndex     int             `gorm:"not null;default:0"`
	Metadata       datatypes.JSONMap
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
