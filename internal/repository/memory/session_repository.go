package memory

import (
	"sync"

	"github.com/AashishKarn828/rag-mlops/pkg/store"
)

// SessionRepository is the process-wide registry of conversation sessions.
// Every method runs its callback while holding the registry lock, so a
// callback sees and mutates a session without interleaving with any other
// operation. Callbacks must not block or call back into the repository.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*store.Session),
	}
}

// Resolve runs fn on the session registered under id. When id is empty or
// unknown, create is called to build a new session, which is registered
// under its own ID before fn runs. Returns the ID of the session fn saw.
func (r *SessionRepository) Resolve(id string, create func() *store.Session, fn func(s *store.Session, created bool)) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, found := r.sessions[id]
	if id == "" || !found {
		s = create()
		r.sessions[s.ID] = s
	}
	fn(s, !found)
	return s.ID
}

// With runs fn on an existing session. Returns false if id is unknown.
func (r *SessionRepository) With(id string, fn func(s *store.Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, found := r.sessions[id]
	if !found {
		return false
	}
	fn(s)
	return true
}

// Delete removes a session. Returns false if id is unknown.
func (r *SessionRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.sessions[id]; !found {
		return false
	}
	delete(r.sessions, id)
	return true
}

// DeleteWhere removes every session matching pred and returns their IDs.
func (r *SessionRepository) DeleteWhere(pred func(s *store.Session) bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, s := range r.sessions {
		if pred(s) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
