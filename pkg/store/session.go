package store

import "time"

// Role identifies who authored a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Title is the speaker label used when rendering a transcript.
func (r Role) Title() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	}
	return string(r)
}

// Message is a single conversation turn. Never mutated after creation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the in-memory conversation state for one session id.
// It is not safe for concurrent use; the registry holding it serializes access.
type Session struct {
	ID         string
	Messages   []Message
	MaxHistory int
	CreatedAt  time.Time
	LastAccess time.Time
}

// Snapshot is a detached copy of a Session handed out to callers.
type Snapshot struct {
	ID           string
	Messages     []Message
	CreatedAt    time.Time
	LastAccess   time.Time
	MessageCount int
}

func NewSession(id string, maxHistory int, now time.Time) *Session {
	return &Session{
		ID:         id,
		Messages:   make([]Message, 0, maxHistory),
		MaxHistory: maxHistory,
		CreatedAt:  now,
		LastAccess: now,
	}
}

// Append adds msg and drops the oldest messages until the history bound holds.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	if s.MaxHistory > 0 && len(s.Messages) > s.MaxHistory {
		kept := make([]Message, s.MaxHistory, s.MaxHistory+1)
		copy(kept, s.Messages[len(s.Messages)-s.MaxHistory:])
		s.Messages = kept
	}
}

// Last returns a copy of the most recent n messages, or all of them when n <= 0.
func (s *Session) Last(n int) []Message {
	start := 0
	if n > 0 && n < len(s.Messages) {
		start = len(s.Messages) - n
	}
	out := make([]Message, len(s.Messages)-start)
	copy(out, s.Messages[start:])
	return out
}

func (s *Session) Clear() {
	s.Messages = make([]Message, 0, s.MaxHistory)
}

func (s *Session) Touch(now time.Time) {
	s.LastAccess = now
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID,
		Messages:     s.Last(0),
		CreatedAt:    s.CreatedAt,
		LastAccess:   s.LastAccess,
		MessageCount: len(s.Messages),
	}
}
