package chat

import (
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/auth"
)

// Registry maps live connection ids to their sessions. A session
// exists exactly while its connection is live and authenticated.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	outboxBuffer int
}

// NewRegistry initializes an empty session table. outboxBuffer sizes
// each session's outbound channel.
func NewRegistry(outboxBuffer int) *Registry {
	return &Registry{
		sessions:     make(map[string]*Session),
		outboxBuffer: outboxBuffer,
	}
}

// Register creates and stores a session for the connection. A second
// registration for a live id fails with ErrDuplicateConnection.
func (r *Registry) Register(connectionID string, identity auth.Identity) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[connectionID]; ok {
		return nil, ErrDuplicateConnection
	}
	s := newSession(connectionID, identity, r.outboxBuffer)
	r.sessions[connectionID] = s
	return s, nil
}

// Lookup returns the session for the connection id.
func (r *Registry) Lookup(connectionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connectionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// remove takes the session out of the table and returns it, or nil if
// the id is unknown. Removing twice is a no-op.
func (r *Registry) remove(connectionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connectionID]
	if !ok {
		return nil
	}
	delete(r.sessions, connectionID)
	return s
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
