package prompt

import (
	"strings"

	"github.com/AashishKarn828/rag-mlops/pkg/llm"
)

const systemInstruction = "You are a helpful assistant that answers questions based on the provided context and conversation history."

const formattingGuidelines = `Format your response in clean Markdown. Use:
- **Bold** for important terms
- Bullet points for lists
- ## Headers for sections
- ` + "`code`" + ` for technical terms
- Keep responses clear and well-structured`

// GroundedBuilder builds the generation prompt from retrieved context and,
// when present, the rendered conversation history.
type GroundedBuilder struct {
	query   string
	context string
	history string
}

// NewGroundedBuilder creates a builder. An empty history selects the
// single-turn template.
func NewGroundedBuilder(query, retrieved, history string) *GroundedBuilder {
	return &GroundedBuilder{
		query:   query,
		context: retrieved,
		history: history,
	}
}

// HasHistory reports which template Build will use.
func (b *GroundedBuilder) HasHistory() bool {
	return strings.TrimSpace(b.history) != ""
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	if b.HasHistory() {
		b.writeConversational(&prompt)
	} else {
		b.writeSingleTurn(&prompt)
	}

	prompt.WriteString(formattingGuidelines)
	prompt.WriteString("\n\nAnswer:")
	return prompt.String()
}

// Messages returns the system instruction followed by the built prompt.
func (b *GroundedBuilder) Messages() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemInstruction},
		{Role: llm.RoleUser, Content: b.Build()},
	}
}

func (b *GroundedBuilder) writeConversational(prompt *strings.Builder) {
	prompt.WriteString("You are a helpful assistant. Use the provided context to answer questions, and remember the conversation history.\n\n")
	prompt.WriteString(b.history)
	prompt.WriteString("\n\nContext from documents:\n")
	prompt.WriteString(b.context)
	prompt.WriteString("\n\nCurrent question: ")
	prompt.WriteString(b.query)
	prompt.WriteString("\n\n")
}

func (b *GroundedBuilder) writeSingleTurn(prompt *strings.Builder) {
	prompt.WriteString("Based on the following context, please answer the question.\n\n")
	prompt.WriteString("Context:\n")
	prompt.WriteString(b.context)
	prompt.WriteString("\n\nQuestion: ")
	prompt.WriteString(b.query)
	prompt.WriteString("\n\n")
}
