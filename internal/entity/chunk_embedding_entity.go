package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkEmbedding is one indexed fragment of a source document.
type ChunkEmbedding struct {
	Id         uuid.UUID
	Vector     []float32
	Text       string
	SourceName string
	ChunkIndex int
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}

// ScoredChunk is a search hit. Higher Score means more similar.
type ScoredChunk struct {
	Text       string
	SourceName string
	ChunkIndex int
	Score      float64
}
