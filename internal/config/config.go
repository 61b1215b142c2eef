package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Keys        APIKeys
	Ai          AIConfig
	Rag         RagConfig
	Session     SessionConfig
	VectorStore VectorStoreConfig
	Events      EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	BodyLimitMB        int
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
	ServiceName        string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	HuggingFace string
	Jina        string
}

type AIConfig struct {
	EmbeddingProvider  string // "ollama" or "jina"
	EmbeddingModel     string
	OllamaBaseURL      string
	LLMProvider        string // "ollama" or "huggingface"
	LLMModel           string
	LLMBaseURL         string
	Temperature        float64
	TopP               float64
	MaxNewTokens       int
	EmbeddingCache     string // "memory", "redis" or "none"
	EmbeddingCacheTTL  time.Duration
	WarmupRetryBackoff time.Duration
}

type RagConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	DefaultTopK   int
	HistoryWindow int
}

type SessionConfig struct {
	MaxHistory      int
	Timeout         time.Duration
	CleanupInterval time.Duration
}

type VectorStoreConfig struct {
	Kind      string // "memory" or "pgvector"
	Dimension int
}

type EventsConfig struct {
	Topic string
}

// Model used when EMBEDDING_MODEL / LLM_MODEL is unset, keyed by provider.
var (
	defaultEmbeddingModels = map[string]string{
		"ollama": "nomic-embed-text",
		"jina":   "jina-embeddings-v2-base-en",
	}
	defaultLLMModels = map[string]string{
		"ollama":      "qwen2.5:0.5b",
		"huggingface": "Qwen/Qwen2.5-0.5B-Instruct",
	}
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", "ollama")
	llmProvider := getEnv("LLM_PROVIDER", "ollama")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 20),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:        getEnv("OTEL_SERVICE_NAME", "rag-mlops"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:        getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  embeddingProvider,
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", defaultEmbeddingModels[embeddingProvider]),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:        llmProvider,
			LLMModel:           getEnv("LLM_MODEL", defaultLLMModels[llmProvider]),
			LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
			Temperature:        getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			TopP:               getEnvAsFloat("LLM_TOP_P", 0.9),
			MaxNewTokens:       getEnvAsInt("LLM_MAX_NEW_TOKENS", 256),
			EmbeddingCache:     getEnv("EMBEDDING_CACHE", "memory"),
			EmbeddingCacheTTL:  getEnvAsDuration("EMBEDDING_CACHE_TTL", time.Hour),
			WarmupRetryBackoff: getEnvAsDuration("WARMUP_RETRY_BACKOFF", 5*time.Second),
		},
		Rag: RagConfig{
			ChunkSize:     getEnvAsInt("CHUNK_SIZE", 500),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 50),
			DefaultTopK:   getEnvAsInt("DEFAULT_TOP_K", 3),
			HistoryWindow: getEnvAsInt("HISTORY_WINDOW", 5),
		},
		Session: SessionConfig{
			MaxHistory:      getEnvAsInt("SESSION_MAX_HISTORY", 10),
			Timeout:         getEnvAsDuration("SESSION_TIMEOUT", 24*time.Hour),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		},
		VectorStore: VectorStoreConfig{
			Kind:      getEnv("VECTOR_STORE", "memory"),
			Dimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
		},
		Events: EventsConfig{
			Topic: getEnv("EVENTS_TOPIC_NAME", "RAG_EVENTS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
