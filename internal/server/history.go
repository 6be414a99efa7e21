package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fenggwsx/ChatRelay/internal/auth"
)

// historyEntry is the JSON shape of one stored message.
type historyEntry struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type errorBody struct {
	Msg string `json:"msg"`
}

// handleHistory serves GET /messages/{room}: a bounded, ascending
// slice of the room's most recent messages. Stateless; the token is
// verified per request with the same rule as the realtime handshake.
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Verify(a.cfg.JWT, requestToken(r)); err != nil {
		msg := "Token is not valid"
		if errors.Is(err, auth.ErrTokenMissing) {
			msg = "No token, authorization denied"
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Msg: msg})
		return
	}

	room := r.PathValue("room")
	messages, err := a.store.ListRecentMessages(r.Context(), room, a.cfg.HistoryLimit)
	if err != nil {
		log.Printf("history query failed room=%s err=%v", room, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Msg: "Server Error"})
		return
	}

	entries := make([]historyEntry, len(messages))
	for i, msg := range messages {
		entries[i] = historyEntry{
			ID:        msg.ID,
			Room:      msg.Room,
			User:      msg.User,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// requestToken pulls the identity token from the X-Auth-Token header,
// falling back to a bearer Authorization header.
func requestToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get("X-Auth-Token")); token != "" {
		return token
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
