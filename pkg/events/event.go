package events

import "time"

const (
	TypeDocumentIndexed = "document.indexed"
	TypeChatAnswered    = "chat.answered"
	TypeSessionSwept    = "session.swept"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the dotted event name, e.g. "document.indexed".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func DocumentIndexed(sourceName string, chunks int) BaseEvent {
	return New(TypeDocumentIndexed, map[string]interface{}{
		"source_name":    sourceName,
		"chunks_indexed": chunks,
	})
}

func ChatAnswered(sessionID string, sources int, fallback bool) BaseEvent {
	return New(TypeChatAnswered, map[string]interface{}{
		"session_id": sessionID,
		"sources":    sources,
		"fallback":   fallback,
	})
}

func SessionSwept(removed int) BaseEvent {
	return New(TypeSessionSwept, map[string]interface{}{
		"removed": removed,
	})
}
