package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *recordingForwarder) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *recordingForwarder) received() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

func TestEventBus_PublishedEventsAreForwarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	forwarder := &recordingForwarder{}
	consumer := NewConsumerService(pubSub, "rag-events", forwarder, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("rag-events", pubSub)
	require.NoError(t, publisher.Publish(ctx, events.DocumentIndexed("guide.pdf", 3)))

	require.Eventually(t, func() bool {
		return len(forwarder.received()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := forwarder.received()[0]
	assert.Equal(t, events.TypeDocumentIndexed, got.EventType())
	assert.Equal(t, "guide.pdf", got.Payload()["source_name"])
	// numbers decode as float64 after the JSON hop
	assert.Equal(t, float64(3), got.Payload()["chunks_indexed"])
}
