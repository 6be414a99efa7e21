package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fenggwsx/ChatRelay/internal/auth"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

func historyRequest(t *testing.T, app *App, room, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/messages/"+room, nil)
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	return rec
}

func Test_History_Requires_Token(t *testing.T) {
	req := require.New(t)
	app, _ := newTestApp(t)

	rec := historyRequest(t, app, "general", "")
	req.Equal(http.StatusUnauthorized, rec.Code)

	var body errorBody
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal("No token, authorization denied", body.Msg)
}

func Test_History_Rejects_Invalid_Token(t *testing.T) {
	req := require.New(t)
	app, _ := newTestApp(t)

	rec := historyRequest(t, app, "general", "not-a-jwt")
	req.Equal(http.StatusUnauthorized, rec.Code)

	var body errorBody
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal("Token is not valid", body.Msg)
}

func Test_History_Returns_Room_Messages_Ascending(t *testing.T) {
	req := require.New(t)
	app, store := newTestApp(t)

	at := time.Now().UTC().Truncate(time.Second)
	for i, text := range []string{"first", "second"} {
		req.NoError(store.SaveMessage(t.Context(), &storage.Message{
			ID:        uuid.NewString(),
			Room:      "general",
			User:      "alice",
			Text:      text,
			Timestamp: at.Add(time.Duration(i) * time.Minute),
		}))
	}
	req.NoError(store.SaveMessage(t.Context(), &storage.Message{
		ID:        uuid.NewString(),
		Room:      "random",
		User:      "bob",
		Text:      "elsewhere",
		Timestamp: at,
	}))

	token, err := auth.NewToken(testConfig().JWT, "u-1", "alice")
	req.NoError(err)

	rec := historyRequest(t, app, "general", token)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))

	var entries []historyEntry
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
	req.Len(entries, 2)
	req.Equal("first", entries[0].Text)
	req.Equal("second", entries[1].Text)
}

func Test_History_Bearer_Header_Accepted(t *testing.T) {
	req := require.New(t)
	app, _ := newTestApp(t)

	token, err := auth.NewToken(testConfig().JWT, "u-1", "alice")
	req.NoError(err)

	httpReq := httptest.NewRequest(http.MethodGet, "/messages/general", nil)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httpReq)

	req.Equal(http.StatusOK, rec.Code)
}

func Test_History_Storage_Failure_Is_500(t *testing.T) {
	req := require.New(t)
	app, store := newTestApp(t)
	store.failList = errStorageDown

	token, err := auth.NewToken(testConfig().JWT, "u-1", "alice")
	req.NoError(err)

	rec := historyRequest(t, app, "general", token)
	req.Equal(http.StatusInternalServerError, rec.Code)
}
