package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fenggwsx/ChatRelay/internal/protocol"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

// Broadcaster persists messages and fans them out to room members.
type Broadcaster struct {
	store storage.Store
	rooms *Rooms
	now   func() time.Time
}

// NewBroadcaster wires the broadcaster to its store and membership
// table.
func NewBroadcaster(store storage.Store, rooms *Rooms) *Broadcaster {
	return &Broadcaster{store: store, rooms: rooms, now: time.Now}
}

// Send validates, persists, then broadcasts a message to every current
// member of the room, sender included. The message id is returned on
// success. Fanout order is the order persistence calls complete, which
// under concurrent senders may differ from submission order.
func (b *Broadcaster) Send(ctx context.Context, s *Session, room, text string) (string, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return "", ErrRoomRequired
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	if !s.InRoom(room) {
		return "", ErrNotMember
	}

	msg := storage.Message{
		ID:        uuid.NewString(),
		Room:      room,
		User:      s.Identity.Username,
		Text:      text,
		Timestamp: b.now().UTC(),
	}
	if err := b.store.SaveMessage(ctx, &msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMessageNotStored, err)
	}

	event := protocol.ServerEvent{
		Type: protocol.EventMessage,
		Payload: protocol.MessagePayload{
			ID:        msg.ID,
			Room:      msg.Room,
			User:      msg.User,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		},
	}
	delivered := b.rooms.Broadcast(room, event, "")
	log.Printf("message broadcast id=%s room=%s user=%s delivered=%d", msg.ID, room, msg.User, delivered)
	return msg.ID, nil
}
