package sessions

import (
	"sync"

	"github.com/pkg/errors"

	apperrors "github.com/oauthkit/go-oauth1-server/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps sessions in process memory. Suitable for a single
// instance deployment; sessions are lost on restart.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sessions: make(map[string]*Session)}
}

func (r *InMemoryRepo) Upsert(session *Session) error {
	if session.ID == "" {
		return errors.New("sessionID is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *InMemoryRepo) Get(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *InMemoryRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
