package main

import (
	"context"
	"log"
	"time"

	"github.com/AashishKarn828/rag-mlops/internal/config"
	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/internal/repository/implementation"
	"github.com/AashishKarn828/rag-mlops/pkg/database"
)

// Prepares the pgvector schema ahead of the first deploy so the API starts
// ready instead of migrating during warmup.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, sysLogger, cfg.App.Environment == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := implementation.NewChunkEmbeddingRepository(db, cfg.VectorStore.Dimension)
	if err := repo.Init(ctx); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatal("Error: Failed to count chunks:", err)
	}

	sysLogger.Info("MIGRATE", "Vector schema ready", map[string]interface{}{
		"table":  "chunk_embeddings",
		"chunks": count,
	})
}
