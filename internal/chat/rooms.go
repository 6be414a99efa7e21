package chat

import (
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/protocol"
)

// Rooms maintains, per room, the set of sessions currently joined.
// Rooms materialize lazily on first join and vanish when their last
// member leaves; persisted history is unaffected either way.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Session
}

// NewRooms initializes an empty membership table.
func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]map[string]*Session)}
}

// Join adds the session to the room's member set. Joining a room the
// session already belongs to changes nothing.
func (r *Rooms) Join(s *Session, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !s.addRoom(room) {
		return
	}
	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]*Session)
	}
	r.rooms[room][s.ID] = s
}

// Leave removes the session from the room's member set.
func (r *Rooms) Leave(s *Session, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !s.removeRoom(room) {
		return
	}
	r.drop(room, s.ID)
}

// LeaveAll removes the session from every room it occupies and returns
// the rooms it left. Invoked on disconnect; once it returns, no room's
// member set references the session.
func (r *Rooms) LeaveAll(s *Session) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := s.Rooms()
	for _, room := range joined {
		s.removeRoom(room)
		r.drop(room, s.ID)
	}
	return joined
}

// drop must be called with mu held.
func (r *Rooms) drop(room, sessionID string) {
	if members, ok := r.rooms[room]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// MembersOf returns a point-in-time snapshot of the room's members. A
// session joining after the snapshot is taken will not be in it.
func (r *Rooms) MembersOf(room string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*Session, 0, len(r.rooms[room]))
	for _, s := range r.rooms[room] {
		members = append(members, s)
	}
	return members
}

// Broadcast queues the event for every current member of the room,
// skipping the session whose id matches exclude (empty excludes no
// one). Delivery per member is best effort; a full outbox drops the
// event for that member only. Returns how many members received it.
func (r *Rooms) Broadcast(room string, ev protocol.ServerEvent, exclude string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for id, s := range r.rooms[room] {
		if id == exclude {
			continue
		}
		if s.deliver(ev) {
			delivered++
		}
	}
	return delivered
}
