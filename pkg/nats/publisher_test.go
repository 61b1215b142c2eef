package nats

import (
	"testing"

	"github.com/AashishKarn828/rag-mlops/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.document.indexed", Subject(events.TypeDocumentIndexed))
	assert.Equal(t, "events.session.swept", Subject(events.TypeSessionSwept))
}
