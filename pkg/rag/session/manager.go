package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AashishKarn828/rag-mlops/internal/pkg/logger"
	"github.com/AashishKarn828/rag-mlops/internal/repository/memory"
	"github.com/AashishKarn828/rag-mlops/pkg/store"

	"github.com/google/uuid"
)

const (
	DefaultMaxHistory = 10
	DefaultTimeout    = 24 * time.Hour

	contextHeader = "Previous conversation:"
	logModule     = "SESSION"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("invalid message role")
)

// Clock returns the current time. Injected so expiry can be tested without waiting.
type Clock func() time.Time

type Config struct {
	MaxHistory int
	Timeout    time.Duration
}

// Manager owns the lifecycle of conversation sessions: creation, bounded
// append, lazy expiry, deletion and the periodic sweep.
type Manager struct {
	repo   *memory.SessionRepository
	cfg    Config
	now    Clock
	newID  func() string
	logger logger.ILogger
}

type Option func(*Manager)

func WithClock(clock Clock) Option {
	return func(m *Manager) {
		m.now = clock
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// NewManager creates a session manager over repo. Zero config values fall back to defaults.
func NewManager(repo *memory.SessionRepository, cfg Config, log logger.ILogger, opts ...Option) *Manager {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	m := &Manager{
		repo:   repo,
		cfg:    cfg,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsExpired reports whether s has been idle for longer than timeout at now.
func IsExpired(s *store.Session, now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastAccess) > timeout
}

// access applies the lazy expiry check and refreshes LastAccess.
// Must run inside a repository callback.
func (m *Manager) access(s *store.Session, now time.Time) {
	if IsExpired(s, now, m.cfg.Timeout) {
		s.Clear()
		m.logger.Info(logModule, "Session expired, history cleared", map[string]interface{}{
			"session_id":  s.ID,
			"last_access": s.LastAccess,
		})
	}
	s.Touch(now)
}

// resolve runs fn on the session for id, creating one when id is empty or unknown.
func (m *Manager) resolve(id string, fn func(s *store.Session, now time.Time)) string {
	now := m.now()

	resolved := m.repo.Resolve(id,
		func() *store.Session {
			return store.NewSession(m.newID(), m.cfg.MaxHistory, now)
		},
		func(s *store.Session, created bool) {
			if created {
				m.logger.Info(logModule, "Created new session", map[string]interface{}{
					"session_id":   s.ID,
					"requested_id": id,
				})
			}
			m.access(s, now)
			if fn != nil {
				fn(s, now)
			}
		},
	)

	return resolved
}

// GetOrCreate returns a copy of the session for id, creating it if needed.
func (m *Manager) GetOrCreate(id string) store.Snapshot {
	var snap store.Snapshot
	m.resolve(id, func(s *store.Session, _ time.Time) {
		snap = s.Snapshot()
	})
	return snap
}

// AddMessage appends one message and returns the id of the session it landed in.
// Pass the returned id to later calls so follow-up turns reach the same session.
func (m *Manager) AddMessage(id string, role store.Role, content string) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	resolved := m.resolve(id, func(s *store.Session, now time.Time) {
		s.Append(store.Message{Role: role, Content: content, Timestamp: now})
	})

	m.logger.Debug(logModule, "Message added", map[string]interface{}{
		"session_id": resolved,
		"role":       string(role),
	})
	return resolved, nil
}

// AddTurn records a user message and the assistant reply in the same session,
// in one step, and returns the session id.
func (m *Manager) AddTurn(id, userContent, assistantContent string) string {
	return m.resolve(id, func(s *store.Session, now time.Time) {
		s.Append(store.Message{Role: store.RoleUser, Content: userContent, Timestamp: now})
		s.Append(store.Message{Role: store.RoleAssistant, Content: assistantContent, Timestamp: now})
	})
}

// History returns the last lastN messages (all when lastN <= 0) in conversation order.
// Unknown ids yield an empty history.
func (m *Manager) History(id string, lastN int) []store.Message {
	now := m.now()
	history := []store.Message{}

	m.repo.With(id, func(s *store.Session) {
		m.access(s, now)
		history = s.Last(lastN)
	})
	return history
}

// FormattedContext renders the last lastN messages as a transcript for the
// generation prompt, or "" when there is nothing to render.
func (m *Manager) FormattedContext(id string, lastN int) string {
	messages := m.History(id, lastN)
	if len(messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(messages)+1)
	parts = append(parts, contextHeader)
	for _, msg := range messages {
		parts = append(parts, msg.Role.Title()+": "+msg.Content)
	}
	return strings.Join(parts, "\n")
}

// Clear empties a session's history but keeps the session registered.
func (m *Manager) Clear(id string) error {
	now := m.now()
	found := m.repo.With(id, func(s *store.Session) {
		s.Clear()
		s.Touch(now)
	})
	if !found {
		return ErrSessionNotFound
	}

	m.logger.Info(logModule, "Cleared conversation history", map[string]interface{}{"session_id": id})
	return nil
}

// Delete removes a session entirely.
func (m *Manager) Delete(id string) error {
	if !m.repo.Delete(id) {
		return ErrSessionNotFound
	}

	m.logger.Info(logModule, "Deleted session", map[string]interface{}{"session_id": id})
	return nil
}

// Info returns a copy of the session without counting as an access.
func (m *Manager) Info(id string) (store.Snapshot, error) {
	var snap store.Snapshot
	found := m.repo.With(id, func(s *store.Session) {
		snap = s.Snapshot()
	})
	if !found {
		return store.Snapshot{}, ErrSessionNotFound
	}
	return snap, nil
}

// SweepExpired removes every session idle for longer than the timeout at now.
func (m *Manager) SweepExpired(now time.Time) int {
	removed := m.repo.DeleteWhere(func(s *store.Session) bool {
		return IsExpired(s, now, m.cfg.Timeout)
	})

	if len(removed) > 0 {
		m.logger.Info(logModule, "Cleaned up expired sessions", map[string]interface{}{
			"count":       len(removed),
			"session_ids": removed,
		})
	}
	return len(removed)
}

func (m *Manager) ActiveCount() int {
	return m.repo.Count()
}

// Now exposes the manager's clock so the sweeper shares it.
func (m *Manager) Now() time.Time {
	return m.now()
}
