package response

import (
	"context"
	"errors"
	"testing"

	"github.com/AashishKarn828/rag-mlops/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	messages []llm.Message
	opts     llm.Options
	answer   string
	err      error
}

func (p *recordingProvider) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.messages = history
	for _, o := range options {
		o(&p.opts)
	}
	return p.answer, p.err
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func (p *recordingProvider) IsReady() bool { return true }

func TestGenerator_PassesSettingsAndPrompt(t *testing.T) {
	p := &recordingProvider{answer: "ok"}
	g := NewGenerator(p, DefaultSettings())

	answer, err := g.Generate(context.Background(), "why?", "because", "Previous conversation:\nUser: hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)

	require.Len(t, p.messages, 2)
	assert.Contains(t, p.messages[1].Content, "Current question: why?")
	assert.Equal(t, 0.7, p.opts.Temperature)
	assert.Equal(t, 0.9, p.opts.TopP)
	assert.Equal(t, 256, p.opts.MaxTokens)
}

func TestGenerator_WrapsProviderError(t *testing.T) {
	boom := errors.New("connection refused")
	g := NewGenerator(&recordingProvider{err: boom}, Settings{})

	_, err := g.Generate(context.Background(), "q", "c", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
