package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"
	"github.com/AashishKarn828/rag-mlops/pkg/embedding"
	"github.com/AashishKarn828/rag-mlops/pkg/events"
	"github.com/AashishKarn828/rag-mlops/pkg/extractor"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/session"
	"github.com/AashishKarn828/rag-mlops/pkg/utils"

	"github.com/google/uuid"
)

const (
	FallbackAnswer = "I don't have enough information to answer this question. Please index some documents first."

	DefaultTopK          = 3
	DefaultHistoryWindow = 5

	logModule = "RAG"
)

// AnswerGenerator produces an answer from the query, the retrieved context and
// the rendered history. history may be empty.
type AnswerGenerator interface {
	Generate(ctx context.Context, query, retrieved, history string) (string, error)
	IsReady() bool
}

type ChatResult struct {
	Answer    string
	Sources   []string
	SessionID string
}

type HealthStatus struct {
	Status       string
	ModelsLoaded bool
}

type RagConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	DefaultTopK   int
	HistoryWindow int
}

type IRagService interface {
	Chat(ctx context.Context, query string, topK int, sessionID string) (*ChatResult, error)
	Index(ctx context.Context, rawText, sourceName string) (int, error)
	IndexFile(ctx context.Context, filename string, data []byte) (int, error)
	Health() HealthStatus
}

type ragService struct {
	embedder  embedding.EmbeddingProvider
	generator AnswerGenerator
	chunks    contract.ChunkEmbeddingRepository
	extractor extractor.Extractor
	sessions  *session.Manager
	publisher IPublisherService
	logger    logger.ILogger
	cfg       RagConfig
}

// NewRagService wires the orchestrator. publisher may be nil.
func NewRagService(
	embedder embedding.EmbeddingProvider,
	generator AnswerGenerator,
	chunks contract.ChunkEmbeddingRepository,
	ext extractor.Extractor,
	sessions *session.Manager,
	publisher IPublisherService,
	log logger.ILogger,
	cfg RagConfig,
) IRagService {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = utils.DefaultChunkSize
		cfg.ChunkOverlap = utils.DefaultChunkOverlap
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = DefaultTopK
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}

	return &ragService{
		embedder:  embedder,
		generator: generator,
		chunks:    chunks,
		extractor: ext,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
	}
}

func (s *ragService) Chat(ctx context.Context, query string, topK int, sessionID string) (*ChatResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, NewValidationError(ErrEmptyQuery)
	}
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, s.upstream(CollaboratorEmbedding, err, sessionID)
	}
	if len(vectors) != 1 {
		return nil, s.upstream(CollaboratorEmbedding, fmt.Errorf("%w: got %d, want 1", embedding.ErrCountMismatch, len(vectors)), sessionID)
	}

	if !s.chunks.IsReady() {
		return nil, s.upstream(CollaboratorVectorIndex, ErrNotReady, sessionID)
	}
	hits, err := s.chunks.Search(ctx, vectors[0], topK)
	if err != nil {
		return nil, s.upstream(CollaboratorVectorIndex, err, sessionID)
	}

	if len(hits) == 0 {
		resolved := s.sessions.AddTurn(sessionID, query, FallbackAnswer)
		s.logger.Info(logModule, "No documents matched, answered with fallback", map[string]interface{}{
			"session_id": resolved,
		})
		s.publish(ctx, events.ChatAnswered(resolved, 0, true))
		return &ChatResult{
			Answer:    FallbackAnswer,
			Sources:   []string{},
			SessionID: resolved,
		}, nil
	}

	contextBlock, sources := assembleContext(hits)

	// history is copied out so no session lock is held during generation
	history := s.sessions.FormattedContext(sessionID, s.cfg.HistoryWindow)

	answer, err := s.generator.Generate(ctx, query, contextBlock, history)
	if err != nil {
		return nil, s.upstream(CollaboratorGeneration, err, sessionID)
	}

	resolved := s.sessions.AddTurn(sessionID, query, answer)

	s.logger.Info(logModule, "Chat answered", map[string]interface{}{
		"session_id": resolved,
		"hits":       len(hits),
		"sources":    len(sources),
	})
	s.publish(ctx, events.ChatAnswered(resolved, len(sources), false))

	return &ChatResult{
		Answer:    answer,
		Sources:   sources,
		SessionID: resolved,
	}, nil
}

// assembleContext joins hit texts in index order and builds the deduplicated
// source labels in first-seen order.
func assembleContext(hits []*entity.ScoredChunk) (string, []string) {
	texts := make([]string, 0, len(hits))
	sources := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))

	for _, hit := range hits {
		texts = append(texts, hit.Text)

		label := fmt.Sprintf("%s (chunk %d)", hit.SourceName, hit.ChunkIndex)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		sources = append(sources, label)
	}

	return strings.Join(texts, "\n\n"), sources
}

func (s *ragService) Index(ctx context.Context, rawText, sourceName string) (int, error) {
	if strings.TrimSpace(rawText) == "" {
		return 0, NewValidationError(ErrEmptyDocument)
	}

	chunks, err := utils.ChunkWords(rawText, sourceName, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return 0, NewValidationError(err)
	}
	if len(chunks) == 0 {
		return 0, NewValidationError(ErrEmptyDocument)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, s.upstream(CollaboratorEmbedding, err, "")
	}
	if len(vectors) != len(chunks) {
		return 0, s.upstream(CollaboratorEmbedding, fmt.Errorf("%w: got %d, want %d", embedding.ErrCountMismatch, len(vectors), len(chunks)), "")
	}

	records := make([]*entity.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		records[i] = &entity.ChunkEmbedding{
			Id:         uuid.New(),
			Vector:     vectors[i],
			Text:       c.Text,
			SourceName: c.SourceName,
			ChunkIndex: c.Index,
			Metadata: map[string]interface{}{
				"word_count": len(strings.Fields(c.Text)),
			},
		}
	}

	if !s.chunks.IsReady() {
		return 0, s.upstream(CollaboratorVectorIndex, ErrNotReady, "")
	}
	if err := s.chunks.Upsert(ctx, records); err != nil {
		return 0, s.upstream(CollaboratorVectorIndex, err, "")
	}

	s.logger.Info(logModule, "Document indexed", map[string]interface{}{
		"source_name": sourceName,
		"chunks":      len(records),
	})
	s.publish(ctx, events.DocumentIndexed(sourceName, len(records)))

	return len(records), nil
}

func (s *ragService) IndexFile(ctx context.Context, filename string, data []byte) (int, error) {
	kind, err := extractor.KindFromFilename(filename)
	if err != nil {
		return 0, NewValidationError(ErrUnsupportedFileType)
	}

	text, err := s.extractor.Extract(data, kind)
	if err != nil {
		if errors.Is(err, extractor.ErrInvalidEncoding) {
			return 0, NewValidationError(err)
		}
		return 0, s.upstream(CollaboratorExtractor, err, "")
	}
	if strings.TrimSpace(text) == "" {
		return 0, NewValidationError(ErrEmptyDocument)
	}

	return s.Index(ctx, text, filename)
}

func (s *ragService) Health() HealthStatus {
	ready := s.embedder.IsReady() && s.generator.IsReady() && s.chunks.IsReady()

	status := "loading"
	if ready {
		status = "healthy"
	}
	return HealthStatus{Status: status, ModelsLoaded: ready}
}

// upstream logs a collaborator failure once and wraps it.
func (s *ragService) upstream(collaborator string, err error, sessionID string) error {
	s.logger.Error(logModule, "Collaborator call failed", map[string]interface{}{
		"collaborator": collaborator,
		"session_id":   sessionID,
		"error":        err.Error(),
	})
	return newUpstreamError(collaborator, err)
}

func (s *ragService) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(logModule, "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
