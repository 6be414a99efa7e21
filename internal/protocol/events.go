package protocol

import "time"

// EventType enumerates the event frames exchanged over a realtime
// connection.
type EventType string

const (
	// Inbound, client to server.
	EventJoinRoom    EventType = "joinRoom"
	EventLeaveRoom   EventType = "leaveRoom"
	EventSendMessage EventType = "sendMessage"
	// EventTyping travels both ways: inbound it carries room and
	// isTyping, outbound it carries user and isTyping.
	EventTyping EventType = "typing"

	// Outbound, server to client.
	EventMessage EventType = "message"
	EventError   EventType = "error"
)

// ClientEvent is the inbound frame. Fields beyond Type are populated
// per event type.
type ClientEvent struct {
	Type     EventType `json:"type"`
	Room     string    `json:"room,omitempty"`
	Text     string    `json:"text,omitempty"`
	IsTyping bool      `json:"isTyping,omitempty"`
}

// ServerEvent is the outbound frame.
type ServerEvent struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// MessagePayload is the broadcast form of a persisted message.
type MessagePayload struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingPayload signals a typing transition to room peers.
type TypingPayload struct {
	User     string `json:"user"`
	IsTyping bool   `json:"isTyping"`
}

// ErrorPayload reports a failed request back to its sender.
type ErrorPayload struct {
	Msg string `json:"msg"`
}
