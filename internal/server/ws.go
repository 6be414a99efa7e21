package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fenggwsx/ChatRelay/internal/auth"
	"github.com/fenggwsx/ChatRelay/internal/chat"
	"github.com/fenggwsx/ChatRelay/internal/protocol"
)

const (
	reasonTokenMissing = "Authentication error: Token missing"
	reasonTokenInvalid = "Authentication error: Invalid token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token, not the origin, gates the connection.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket authenticates the handshake, upgrades the
// connection, and runs the read/write pumps until the peer goes away.
func (a *App) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Verify(a.cfg.JWT, r.URL.Query().Get("token"))
	if err != nil {
		reason := reasonTokenInvalid
		if errors.Is(err, auth.ErrTokenMissing) {
			reason = reasonTokenMissing
		}
		http.Error(w, reason, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		log.Printf("upgrade failed remote=%s err=%v", r.RemoteAddr, err)
		return
	}

	session, err := a.engine.Connect(uuid.NewString(), identity)
	if err != nil {
		_ = conn.Close()
		return
	}

	go a.writePump(conn, session)
	a.readPump(r.Context(), conn, session)
}

// readPump decodes inbound frames and routes them into the engine. It
// owns disconnect cleanup: every exit path, including abrupt transport
// failure, tears the session down before returning.
func (a *App) readPump(ctx context.Context, conn *websocket.Conn, session *chat.Session) {
	defer func() {
		a.engine.Disconnect(session.ID)
		_ = conn.Close()
	}()

	for {
		var ev protocol.ClientEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("read error user=%s err=%v", session.Identity.Username, err)
			}
			return
		}
		a.routeEvent(ctx, session, ev)
	}
}

// writePump drains the session outbox onto the socket. The outbox is
// closed by Disconnect, which ends the loop.
func (a *App) writePump(conn *websocket.Conn, session *chat.Session) {
	defer conn.Close()

	for ev := range session.Events() {
		if a.cfg.WriteTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(a.cfg.WriteTimeout)); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (a *App) routeEvent(ctx context.Context, session *chat.Session, ev protocol.ClientEvent) {
	var err error
	switch ev.Type {
	case protocol.EventJoinRoom:
		err = a.engine.Join(session, ev.Room)
	case protocol.EventLeaveRoom:
		err = a.engine.Leave(session, ev.Room)
	case protocol.EventSendMessage:
		_, err = a.engine.Send(ctx, session, ev.Room, ev.Text)
	case protocol.EventTyping:
		err = a.engine.SetTyping(session, ev.Room, ev.IsTyping)
	default:
		log.Printf("unhandled event type=%q user=%s", ev.Type, session.Identity.Username)
		return
	}

	if err != nil {
		a.reportError(session, ev, err)
	}
}

// reportError sends a definite failure signal back to the initiating
// session. The connection stays open; only the operation failed.
func (a *App) reportError(session *chat.Session, ev protocol.ClientEvent, err error) {
	msg := "request failed"
	switch {
	case errors.Is(err, chat.ErrRoomRequired),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrNotMember):
		msg = err.Error()
	case errors.Is(err, chat.ErrMessageNotStored):
		msg = chat.ErrMessageNotStored.Error()
		log.Printf("persistence failure user=%s room=%s err=%v", session.Identity.Username, ev.Room, err)
	default:
		log.Printf("event failed type=%s user=%s err=%v", ev.Type, session.Identity.Username, err)
	}

	session.Reply(protocol.ServerEvent{
		Type:    protocol.EventError,
		Payload: protocol.ErrorPayload{Msg: msg},
	})
}
