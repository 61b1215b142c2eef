package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/AashishKarn828/rag-mlops/internal/config"
	"github.com/AashishKarn828/rag-mlops/internal/controller"
	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"
	"github.com/AashishKarn828/rag-mlops/internal/repository/implementation"
	"github.com/AashishKarn828/rag-mlops/internal/repository/memory"
	"github.com/AashishKarn828/rag-mlops/internal/service"
	"github.com/AashishKarn828/rag-mlops/pkg/database"
	"github.com/AashishKarn828/rag-mlops/pkg/embedding"
	"github.com/AashishKarn828/rag-mlops/pkg/embedding/jina"
	"github.com/AashishKarn828/rag-mlops/pkg/events"
	"github.com/AashishKarn828/rag-mlops/pkg/extractor"
	"github.com/AashishKarn828/rag-mlops/pkg/llm/factory"
	pktNats "github.com/AashishKarn828/rag-mlops/pkg/nats"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/response"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const logModule = "BOOTSTRAP"

type warmupStep struct {
	name string
	run  func(ctx context.Context) error
}

type warmer interface {
	Warmup(ctx context.Context) error
}

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController
	SessionController  controller.ISessionController

	// Background services (started by Start)
	ConsumerService service.IConsumerService
	CleanupService  *session.CleanupService

	Logger logger.ILogger

	warmups []warmupStep
	backoff time.Duration
	wg      sync.WaitGroup

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
	db      *gorm.DB
}

func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{backoff: cfg.Ai.WarmupRetryBackoff}
	if c.backoff <= 0 {
		c.backoff = 5 * time.Second
	}

	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger

	// 2. Infrastructure, all optional
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn(logModule, "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		c.rdb = redis.NewClient(opt)
		if err := c.rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn(logModule, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
	}

	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(logModule, "Failed to connect to NATS, events stay in process", map[string]interface{}{"error": err.Error()})
		} else {
			c.natsPub = natsPub
		}
	}

	// 3. Event bus
	c.pubSub = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService(cfg.Events.Topic, c.pubSub)

	var forwarder service.EventForwarder
	if c.natsPub != nil {
		forwarder = c.natsPub
	}
	eventLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "events.log"))
	c.ConsumerService = service.NewConsumerService(c.pubSub, cfg.Events.Topic, forwarder, eventLogger)

	// 4. Collaborators
	embedder, err := c.newEmbeddingProvider(cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" && (cfg.Ai.LLMProvider == "ollama" || cfg.Ai.LLMProvider == "") {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL, cfg.Keys.HuggingFace)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	if w, ok := llmProvider.(warmer); ok {
		c.warmups = append(c.warmups, warmupStep{name: "generation", run: w.Warmup})
	}
	sysLogger.Info(logModule, "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	generator := response.NewGenerator(llmProvider, response.Settings{
		Temperature: cfg.Ai.Temperature,
		TopP:        cfg.Ai.TopP,
		MaxTokens:   cfg.Ai.MaxNewTokens,
	})

	chunkRepo, err := c.newChunkRepository(cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 5. Sessions
	sessionManager := session.NewManager(
		memory.NewSessionRepository(),
		session.Config{MaxHistory: cfg.Session.MaxHistory, Timeout: cfg.Session.Timeout},
		sysLogger,
	)
	c.CleanupService = session.NewCleanupService(sessionManager, cfg.Session.CleanupInterval,
		func(ctx context.Context, removed int) {
			if err := publisherService.Publish(ctx, events.SessionSwept(removed)); err != nil {
				sysLogger.Warn(logModule, "Failed to publish sweep event", map[string]interface{}{"error": err.Error()})
			}
		},
	)

	// 6. Services
	ragService := service.NewRagService(
		embedder,
		generator,
		chunkRepo,
		extractor.NewDocumentExtractor(),
		sessionManager,
		publisherService,
		sysLogger,
		service.RagConfig{
			ChunkSize:     cfg.Rag.ChunkSize,
			ChunkOverlap:  cfg.Rag.ChunkOverlap,
			DefaultTopK:   cfg.Rag.DefaultTopK,
			HistoryWindow: cfg.Rag.HistoryWindow,
		},
	)
	sessionService := service.NewSessionService(sessionManager)

	// 7. Controllers
	c.HealthController = controller.NewHealthController(ragService)
	c.DocumentController = controller.NewDocumentController(ragService)
	c.ChatController = controller.NewChatController(ragService)
	c.SessionController = controller.NewSessionController(sessionService)

	return c, nil
}

func (c *Container) newEmbeddingProvider(cfg *config.Config, log logger.ILogger) (embedding.EmbeddingProvider, error) {
	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama", "":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "jina":
		provider = jina.NewJinaProvider(cfg.Keys.Jina, "", cfg.Ai.EmbeddingModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
	log.Info(logModule, "Using embedding provider", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	namespace := cfg.Ai.EmbeddingProvider + ":" + cfg.Ai.EmbeddingModel
	switch cfg.Ai.EmbeddingCache {
	case "redis":
		if c.rdb == nil {
			log.Warn(logModule, "Redis cache requested without REDIS_URL, falling back to memory cache", nil)
			provider = embedding.NewCachedProvider(provider, embedding.NewMemoryCache(cfg.Ai.EmbeddingCacheTTL), namespace)
		} else {
			provider = embedding.NewCachedProvider(provider, embedding.NewRedisCache(c.rdb, cfg.Ai.EmbeddingCacheTTL), namespace)
		}
	case "memory":
		provider = embedding.NewCachedProvider(provider, embedding.NewMemoryCache(cfg.Ai.EmbeddingCacheTTL), namespace)
	}

	if w, ok := provider.(warmer); ok {
		c.warmups = append(c.warmups, warmupStep{name: "embedding", run: w.Warmup})
	}
	return provider, nil
}

func (c *Container) newChunkRepository(cfg *config.Config, log logger.ILogger) (contract.ChunkEmbeddingRepository, error) {
	switch cfg.VectorStore.Kind {
	case "memory", "":
		log.Info(logModule, "Using in-memory vector store", map[string]interface{}{"dimension": cfg.VectorStore.Dimension})
		return memory.NewChunkEmbeddingRepository(cfg.VectorStore.Dimension), nil
	case "pgvector":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, log, cfg.App.Environment == "production")
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		c.db = db
		repo := implementation.NewChunkEmbeddingRepository(db, cfg.VectorStore.Dimension)
		c.warmups = append(c.warmups, warmupStep{name: "vector_index", run: repo.Init})
		log.Info(logModule, "Using pgvector vector store", map[string]interface{}{"dimension": cfg.VectorStore.Dimension})
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported vector store: %s", cfg.VectorStore.Kind)
	}
}

// Start launches the event consumer, the session sweeper and the collaborator
// warmup. Warmup retries in the background until every step succeeds or ctx ends;
// /health reports "loading" meanwhile.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start event consumer: %w", err)
	}
	c.CleanupService.Start(ctx)

	for _, step := range c.warmups {
		c.wg.Add(1)
		go func(step warmupStep) {
			defer c.wg.Done()
			c.warmup(ctx, step)
		}(step)
	}
	return nil
}

func (c *Container) warmup(ctx context.Context, step warmupStep) {
	for attempt := 1; ; attempt++ {
		err := step.run(ctx)
		if err == nil {
			c.Logger.Info(logModule, "Collaborator ready", map[string]interface{}{
				"collaborator": step.name,
				"attempts":     attempt,
			})
			return
		}

		c.Logger.Warn(logModule, "Collaborator warmup failed, retrying", map[string]interface{}{
			"collaborator": step.name,
			"attempt":      attempt,
			"error":        err.Error(),
		})

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.backoff):
		}
	}
}

// Shutdown stops background work and releases connections. ctx must be
// cancelled by the caller first so warmup loops exit.
func (c *Container) Shutdown() {
	c.CleanupService.Stop()
	c.wg.Wait()

	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn(logModule, "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.db != nil {
		if err := database.Close(c.db); err != nil {
			c.Logger.Warn(logModule, "Failed to close database", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}
