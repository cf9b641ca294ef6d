package sessions

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session is a per-user mutable value map persisted across requests.
// It is scoped to a single user agent; the provider engine stores its
// authorization transactions under one of its keys. Concurrent
// requests from the same user agent share the one Session, so value
// access is guarded, but the engine performs no locking beyond that:
// two simultaneous decisions on the same transaction are last-write-wins.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty session with the given identifier.
func New(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now(), values: make(map[string]any)}
}

// Get returns the value stored under key, or nil.
func (s *Session) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Set stores a value under key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes the value stored under key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

type contextKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// FromRequest returns the session attached to the request, or nil if
// the session middleware is not mounted.
func FromRequest(r *http.Request) *Session {
	return FromContext(r.Context())
}
