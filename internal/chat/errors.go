package chat

import "errors"

var (
	// ErrDuplicateConnection signals a second registration for a live
	// connection id. Should not occur under correct transport use.
	ErrDuplicateConnection = errors.New("connection already registered")
	// ErrSessionNotFound signals a lookup for an unknown connection id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRoomRequired rejects requests with an empty room name.
	ErrRoomRequired = errors.New("room required")
	// ErrEmptyMessage rejects sends whose text is empty after trimming.
	ErrEmptyMessage = errors.New("message empty")
	// ErrNotMember rejects room operations from sessions that have not
	// joined the room.
	ErrNotMember = errors.New("join room first")

	// ErrMessageNotStored wraps storage failures on send. The message
	// was not broadcast and the connection remains usable.
	ErrMessageNotStored = errors.New("message not stored")
)
