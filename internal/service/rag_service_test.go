package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AashishKarn828/rag-mlops/internal/entity"
	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/internal/repository/contract"
	"github.com/AashishKarn828/rag-mlops/internal/repository/memory"
	"github.com/AashishKarn828/rag-mlops/pkg/extractor"
	"github.com/AashishKarn828/rag-mlops/pkg/rag/session"
	"github.com/AashishKarn828/rag-mlops/pkg/store"
	"github.com/AashishKarn828/rag-mlops/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantEmbedder maps every text to the same unit vector so the in-memory
// index returns hits in insertion order.
type constantEmbedder struct {
	err   error
	calls int
}

func (e *constantEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (e *constantEmbedder) IsReady() bool { return e.err == nil }

type fakeGenerator struct {
	answer string
	err    error

	calls   int
	query   string
	context string
	history string
}

func (g *fakeGenerator) Generate(_ context.Context, query, retrieved, history string) (string, error) {
	g.calls++
	g.query, g.context, g.history = query, retrieved, history
	return g.answer, g.err
}

func (g *fakeGenerator) IsReady() bool { return true }

// scriptedIndex returns fixed hits regardless of the query vector.
type scriptedIndex struct {
	hits      []*entity.ScoredChunk
	searchErr error
	upsertErr error
	ready     bool
	upserted  []*entity.ChunkEmbedding
}

func (s *scriptedIndex) Upsert(_ context.Context, chunks []*entity.ChunkEmbedding) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, chunks...)
	return nil
}

func (s *scriptedIndex) Search(_ context.Context, _ []float32, _ int) ([]*entity.ScoredChunk, error) {
	return s.hits, s.searchErr
}

func (s *scriptedIndex) Count(_ context.Context) (int64, error) { return int64(len(s.upserted)), nil }

func (s *scriptedIndex) IsReady() bool { return s.ready }

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(_ []byte, _ extractor.Kind) (string, error) {
	return f.text, f.err
}

type harness struct {
	svc       IRagService
	sessions  *session.Manager
	embedder  *constantEmbedder
	generator *fakeGenerator
}

func newHarness(t *testing.T, index contract.ChunkEmbeddingRepository, ext extractor.Extractor) *harness {
	t.Helper()

	log := logger.NewNopLogger()
	sessions := session.NewManager(memory.NewSessionRepository(), session.Config{}, log)
	embedder := &constantEmbedder{}
	generator := &fakeGenerator{answer: "generated answer"}

	svc := NewRagService(embedder, generator, index, ext, sessions, nil, log, RagConfig{
		ChunkSize:    4,
		ChunkOverlap: 1,
	})
	return &harness{svc: svc, sessions: sessions, embedder: embedder, generator: generator}
}

func TestRagService_ChatFallbackWhenIndexEmpty(t *testing.T) {
	h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{})

	res, err := h.svc.Chat(context.Background(), "What is Go?", 3, "")
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, res.Answer)
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
	assert.NotEmpty(t, res.SessionID)
	assert.Zero(t, h.generator.calls)

	history := h.sessions.History(res.SessionID, 0)
	require.Len(t, history, 2)
	assert.Equal(t, store.RoleUser, history[0].Role)
	assert.Equal(t, "What is Go?", history[0].Content)
	assert.Equal(t, FallbackAnswer, history[1].Content)
}

func TestRagService_ChatDeduplicatesSources(t *testing.T) {
	index := &scriptedIndex{ready: true, hits: []*entity.ScoredChunk{
		{Text: "first", SourceName: "a.pdf", ChunkIndex: 0, Score: 0.9},
		{Text: "second", SourceName: "b.txt", ChunkIndex: 2, Score: 0.8},
		{Text: "first again", SourceName: "a.pdf", ChunkIndex: 0, Score: 0.7},
	}}
	h := newHarness(t, index, fakeExtractor{})

	res, err := h.svc.Chat(context.Background(), "q", 3, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf (chunk 0)", "b.txt (chunk 2)"}, res.Sources)
	assert.Equal(t, "first\n\nsecond\n\nfirst again", h.generator.context)
	assert.Equal(t, "generated answer", res.Answer)
}

func TestRagService_ChatUsesHistoryOnFollowUp(t *testing.T) {
	index := &scriptedIndex{ready: true, hits: []*entity.ScoredChunk{
		{Text: "ctx", SourceName: "a.txt", ChunkIndex: 0},
	}}
	h := newHarness(t, index, fakeExtractor{})
	ctx := context.Background()

	first, err := h.svc.Chat(ctx, "hello", 0, "")
	require.NoError(t, err)
	assert.Empty(t, h.generator.history)

	second, err := h.svc.Chat(ctx, "and then?", 0, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "Previous conversation:\nUser: hello\nAssistant: generated answer", h.generator.history)
	assert.Len(t, h.sessions.History(first.SessionID, 0), 4)
}

func TestRagService_GenerationFailureLeavesHistoryUntouched(t *testing.T) {
	index := &scriptedIndex{ready: true, hits: []*entity.ScoredChunk{
		{Text: "ctx", SourceName: "a.txt", ChunkIndex: 0},
	}}
	h := newHarness(t, index, fakeExtractor{})
	ctx := context.Background()

	id, err := h.sessions.AddMessage("", store.RoleUser, "earlier")
	require.NoError(t, err)

	h.generator.err = errors.New("model crashed")
	_, err = h.svc.Chat(ctx, "q", 3, id)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, CollaboratorGeneration, upstream.Collaborator)
	assert.Len(t, h.sessions.History(id, 0), 1)
}

func TestRagService_ChatNamesFailingCollaborator(t *testing.T) {
	ctx := context.Background()

	t.Run("embedding", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{})
		h.embedder.err = errors.New("connection refused")

		_, err := h.svc.Chat(ctx, "q", 3, "")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, CollaboratorEmbedding, upstream.Collaborator)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("vector index", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true, searchErr: errors.New("timeout")}, fakeExtractor{})

		_, err := h.svc.Chat(ctx, "q", 3, "")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, CollaboratorVectorIndex, upstream.Collaborator)
		assert.Zero(t, h.sessions.ActiveCount())
	})

	t.Run("index not ready", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{}, fakeExtractor{})

		_, err := h.svc.Chat(ctx, "q", 3, "")
		assert.ErrorIs(t, err, ErrNotReady)
	})
}

func TestRagService_ChatRejectsBlankQuery(t *testing.T) {
	h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{})

	_, err := h.svc.Chat(context.Background(), "   ", 3, "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, h.embedder.calls)
}

func TestRagService_IndexThenChatEndToEnd(t *testing.T) {
	h := newHarness(t, memory.NewChunkEmbeddingRepository(2), fakeExtractor{})
	ctx := context.Background()

	// 9 words, size 4, overlap 1: windows start at 0, 3 and 6
	n, err := h.svc.Index(ctx, "w0 w1 w2 w3 w4 w5 w6 w7 w8", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := h.svc.Chat(ctx, "what?", 3, "")
	require.NoError(t, err)

	assert.Equal(t, "w0 w1 w2 w3\n\nw3 w4 w5 w6\n\nw6 w7 w8", h.generator.context)
	assert.Equal(t, []string{"doc.txt (chunk 0)", "doc.txt (chunk 1)", "doc.txt (chunk 2)"}, res.Sources)
}

func TestRagService_IndexRecordsChunks(t *testing.T) {
	index := &scriptedIndex{ready: true}
	h := newHarness(t, index, fakeExtractor{})

	n, err := h.svc.Index(context.Background(), "a b c d e f", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, index.upserted, 2)
	assert.NotEqual(t, index.upserted[0].Id, index.upserted[1].Id)
	assert.Equal(t, "a b c d", index.upserted[0].Text)
	assert.Equal(t, "d e f", index.upserted[1].Text)
	assert.Equal(t, 1, index.upserted[1].ChunkIndex)
}

func TestRagService_IndexFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{})
		_, err := h.svc.Index(ctx, " \n\t", "empty.txt")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("upsert failure reports no partial count", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true, upsertErr: errors.New("disk full")}, fakeExtractor{})
		n, err := h.svc.Index(ctx, "a b c d e f", "doc.txt")
		assert.Zero(t, n)

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, CollaboratorVectorIndex, upstream.Collaborator)
	})

	t.Run("invalid chunk configuration", func(t *testing.T) {
		log := logger.NewNopLogger()
		sessions := session.NewManager(memory.NewSessionRepository(), session.Config{}, log)
		svc := NewRagService(&constantEmbedder{}, &fakeGenerator{}, &scriptedIndex{ready: true},
			fakeExtractor{}, sessions, nil, log, RagConfig{ChunkSize: 3, ChunkOverlap: 3})

		_, err := svc.Index(ctx, "a b c d", "doc.txt")
		assert.ErrorIs(t, err, utils.ErrInvalidConfiguration)

		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}

func TestRagService_IndexFile(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported extension", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{text: "x"})
		_, err := h.svc.IndexFile(ctx, "slides.pptx", []byte("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})

	t.Run("empty extraction", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{text: "  "})
		_, err := h.svc.IndexFile(ctx, "scan.PDF", []byte("%PDF"))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("extractor failure", func(t *testing.T) {
		h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{err: errors.New("corrupt xref")})
		_, err := h.svc.IndexFile(ctx, "broken.pdf", []byte("%PDF"))

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, CollaboratorExtractor, upstream.Collaborator)
	})

	t.Run("indexes extracted text under the filename", func(t *testing.T) {
		index := &scriptedIndex{ready: true}
		h := newHarness(t, index, fakeExtractor{text: strings.Repeat("word ", 5)})
		n, err := h.svc.IndexFile(ctx, "guide.txt", []byte("ignored"))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "guide.txt", index.upserted[0].SourceName)
	})
}

func TestRagService_Health(t *testing.T) {
	h := newHarness(t, &scriptedIndex{ready: true}, fakeExtractor{})
	assert.Equal(t, HealthStatus{Status: "healthy", ModelsLoaded: true}, h.svc.Health())

	h.embedder.err = errors.New("down")
	assert.Equal(t, HealthStatus{Status: "loading", ModelsLoaded: false}, h.svc.Health())
}
