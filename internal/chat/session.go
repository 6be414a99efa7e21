package chat

import (
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/auth"
	"github.com/fenggwsx/ChatRelay/internal/protocol"
)

// Session tracks per-connection state and outbound delivery. Identity
// is verified once at the handshake and never changes afterwards; room
// membership is mutated only through the Rooms manager.
type Session struct {
	ID       string
	Identity auth.Identity

	outbox    chan protocol.ServerEvent
	closeOnce sync.Once

	mu    sync.Mutex
	rooms map[string]struct{}
}

func newSession(id string, identity auth.Identity, outboxBuffer int) *Session {
	return &Session{
		ID:       id,
		Identity: identity,
		outbox:   make(chan protocol.ServerEvent, outboxBuffer),
		rooms:    make(map[string]struct{}),
	}
}

// Events exposes the outbound stream for the connection's write pump.
// The channel is closed when the session is unregistered.
func (s *Session) Events() <-chan protocol.ServerEvent {
	return s.outbox
}

// deliver queues an event without blocking. A full outbox drops the
// event for this session only, so one slow reader never stalls a
// broadcast.
func (s *Session) deliver(ev protocol.ServerEvent) bool {
	select {
	case s.outbox <- ev:
		return true
	default:
		return false
	}
}

// Reply queues an event directly for this session, outside any room.
// Used for per-request failure signals. Same non-blocking contract as
// broadcast delivery.
func (s *Session) Reply(ev protocol.ServerEvent) bool {
	return s.deliver(ev)
}

// InRoom reports whether the session currently belongs to room.
func (s *Session) InRoom(room string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[room]
	return ok
}

// Rooms returns a snapshot of the rooms the session has joined.
func (s *Session) Rooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	joined := make([]string, 0, len(s.rooms))
	for room := range s.rooms {
		joined = append(joined, room)
	}
	return joined
}

func (s *Session) addRoom(room string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room]; ok {
		return false
	}
	s.rooms[room] = struct{}{}
	return true
}

func (s *Session) removeRoom(room string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room]; !ok {
		return false
	}
	delete(s.rooms, room)
	return true
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.outbox)
	})
}
