package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fenggwsx/ChatRelay/internal/config"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

var errStorageDown = errors.New("storage unavailable")

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			Issuer:     "chatrelay-test",
			Expiration: time.Hour,
		},
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		HistoryLimit: 100,
		OutboxBuffer: 16,
	}
}

// memStore is an in-memory storage.Store for handler tests.
type memStore struct {
	mu       sync.Mutex
	saved    []storage.Message
	failList error
}

func (m *memStore) Close() error                      { return nil }
func (m *memStore) Migrate(ctx context.Context) error { return nil }

func (m *memStore) SaveMessage(ctx context.Context, msg *storage.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *msg)
	return nil
}

func (m *memStore) ListRecentMessages(ctx context.Context, room string, limit int) ([]storage.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var messages []storage.Message
	for _, msg := range m.saved {
		if msg.Room == room {
			messages = append(messages, msg)
		}
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func newTestApp(t *testing.T) (*App, *memStore) {
	t.Helper()
	store := &memStore{}
	return NewApp(testConfig(), store), store
}
