// Package chat implements the realtime session and broadcast engine:
// session registry, room membership, persist-then-fanout messaging,
// and ephemeral typing state. The engine is transport-agnostic; the
// websocket layer in internal/server adapts connections onto it.
package chat

import (
	"context"
	"log"
	"strings"

	"github.com/fenggwsx/ChatRelay/internal/auth"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

// Engine bundles the engine's parts behind the operations a transport
// invokes: connect, disconnect, join, leave, send, typing.
type Engine struct {
	registry    *Registry
	rooms       *Rooms
	typing      *TypingTracker
	broadcaster *Broadcaster
}

// NewEngine assembles an engine over the given store. outboxBuffer
// sizes each session's outbound event channel.
func NewEngine(store storage.Store, outboxBuffer int) *Engine {
	rooms := NewRooms()
	return &Engine{
		registry:    NewRegistry(outboxBuffer),
		rooms:       rooms,
		typing:      NewTypingTracker(rooms),
		broadcaster: NewBroadcaster(store, rooms),
	}
}

// Connect registers a session for a connection whose token already
// passed verification.
func (e *Engine) Connect(connectionID string, identity auth.Identity) (*Session, error) {
	s, err := e.registry.Register(connectionID, identity)
	if err != nil {
		return nil, err
	}
	log.Printf("client connected id=%s user=%s", connectionID, identity.Username)
	return s, nil
}

// Disconnect tears a session down: out of the registry, out of every
// room, typing flags flushed, outbox closed. Idempotent, and safe to
// call from any exit path. By the time it returns, no broadcast
// computation can observe the session.
func (e *Engine) Disconnect(connectionID string) {
	s := e.registry.remove(connectionID)
	if s == nil {
		return
	}
	left := e.rooms.LeaveAll(s)
	e.typing.ClearSession(s, left)
	s.close()
	log.Printf("client disconnected id=%s user=%s rooms=%d", s.ID, s.Identity.Username, len(left))
}

// Lookup returns the session for a live connection id.
func (e *Engine) Lookup(connectionID string) (*Session, error) {
	return e.registry.Lookup(connectionID)
}

// Join adds the session to the room, creating the room on first join.
// Joining twice succeeds silently.
func (e *Engine) Join(s *Session, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return ErrRoomRequired
	}
	e.rooms.Join(s, room)
	return nil
}

// Leave removes the session from the room and drops its typing flag
// there if set.
func (e *Engine) Leave(s *Session, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return ErrRoomRequired
	}
	e.rooms.Leave(s, room)
	e.typing.ClearSession(s, []string{room})
	return nil
}

// Send persists then broadcasts a message to the room, sender
// included, returning the stored message id.
func (e *Engine) Send(ctx context.Context, s *Session, room, text string) (string, error) {
	return e.broadcaster.Send(ctx, s, room, text)
}

// SetTyping propagates a typing transition to the room, sender
// excluded.
func (e *Engine) SetTyping(s *Session, room string, isTyping bool) error {
	return e.typing.SetTyping(s, room, isTyping)
}

// MembersOf exposes the room's current member snapshot.
func (e *Engine) MembersOf(room string) []*Session {
	return e.rooms.MembersOf(room)
}

// Sessions reports the number of live sessions.
func (e *Engine) Sessions() int {
	return e.registry.Len()
}
