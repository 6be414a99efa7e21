package chat

import (
	"strings"
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/protocol"
)

// TypingTracker holds the ephemeral per-room set of currently-typing
// users. Nothing here is persisted; state disappears with the session
// or on an isTyping=false transition.
type TypingTracker struct {
	mu    sync.Mutex
	rooms map[string]map[string]bool
	fan   *Rooms
}

// NewTypingTracker wires the tracker to the membership table it fans
// transitions out through.
func NewTypingTracker(fan *Rooms) *TypingTracker {
	return &TypingTracker{rooms: make(map[string]map[string]bool), fan: fan}
}

// SetTyping records the session's typing flag for the room and, when
// the flag actually changes, notifies the other members. The sender
// never receives its own typing events.
func (t *TypingTracker) SetTyping(s *Session, room string, isTyping bool) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return ErrRoomRequired
	}
	if !s.InRoom(room) {
		return ErrNotMember
	}

	user := s.Identity.Username
	if !t.transition(room, user, isTyping) {
		return nil
	}

	t.fan.Broadcast(room, typingEvent(user, isTyping), s.ID)
	return nil
}

// ClearSession drops the user's typing flag in every room the session
// occupied and emits a final isTyping=false wherever the flag was set,
// so peers do not keep a stale indicator. Called on disconnect with
// the rooms the session just left.
func (t *TypingTracker) ClearSession(s *Session, rooms []string) {
	user := s.Identity.Username
	for _, room := range rooms {
		if t.transition(room, user, false) {
			t.fan.Broadcast(room, typingEvent(user, false), s.ID)
		}
	}
}

// transition flips the stored flag and reports whether it changed.
// Cleared flags and emptied rooms are deleted outright so the maps
// never grow past the set of active typists.
func (t *TypingTracker) transition(room, user string, isTyping bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.rooms[room][user]
	if current == isTyping {
		return false
	}
	if isTyping {
		if _, ok := t.rooms[room]; !ok {
			t.rooms[room] = make(map[string]bool)
		}
		t.rooms[room][user] = true
		return true
	}
	delete(t.rooms[room], user)
	if len(t.rooms[room]) == 0 {
		delete(t.rooms, room)
	}
	return true
}

// Typists returns the users currently marked typing in the room.
func (t *TypingTracker) Typists(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.rooms[room]))
	for user := range t.rooms[room] {
		users = append(users, user)
	}
	return users
}

func typingEvent(user string, isTyping bool) protocol.ServerEvent {
	return protocol.ServerEvent{
		Type:    protocol.EventTyping,
		Payload: protocol.TypingPayload{User: user, IsTyping: isTyping},
	}
}
