package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Message is a persisted chat message. Immutable once stored; the
// timestamp is assigned server-side at persistence time.
type Message struct {
	ID        string
	Room      string
	User      string
	Text      string
	Timestamp time.Time
}

// Store defines persistence operations used by the server.
type Store interface {
	Close() error
	Migrate(ctx context.Context) error

	SaveMessage(ctx context.Context, msg *Message) error
	// ListRecentMessages returns up to limit of the newest messages in
	// the room, ordered by ascending timestamp.
	ListRecentMessages(ctx context.Context, room string, limit int) ([]Message, error)
}
