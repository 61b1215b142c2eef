package prompt

import (
	"strings"
	"testing"

	"github.com/AashishKarn828/rag-mlops/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundedBuilder_SingleTurn(t *testing.T) {
	b := NewGroundedBuilder("What is Go?", "Go is a language.", "")
	assert.False(t, b.HasHistory())

	out := b.Build()
	assert.True(t, strings.HasPrefix(out, "Based on the following context"))
	assert.Contains(t, out, "Context:\nGo is a language.\n\nQuestion: What is Go?")
	assert.NotContains(t, out, "Previous conversation")
	assert.True(t, strings.HasSuffix(out, "Answer:"))
}

func TestGroundedBuilder_WithHistory(t *testing.T) {
	history := "Previous conversation:\nUser: hi\nAssistant: hello"
	b := NewGroundedBuilder("And then?", "ctx", history)
	assert.True(t, b.HasHistory())

	out := b.Build()
	assert.Contains(t, out, history+"\n\nContext from documents:\nctx")
	assert.Contains(t, out, "Current question: And then?")
}

func TestGroundedBuilder_Messages(t *testing.T) {
	msgs := NewGroundedBuilder("q", "c", "").Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Question: q")
}
