package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/storage"
)

var errStorageDown = errors.New("storage unavailable")

// fakeStore is an in-memory storage.Store for engine tests.
type fakeStore struct {
	mu       sync.Mutex
	saved    []storage.Message
	failSave error
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }

func (f *fakeStore) SaveMessage(ctx context.Context, msg *storage.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.saved = append(f.saved, *msg)
	return nil
}

func (f *fakeStore) ListRecentMessages(ctx context.Context, room string, limit int) ([]storage.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var messages []storage.Message
	for _, msg := range f.saved {
		if msg.Room == room {
			messages = append(messages, msg)
		}
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (f *fakeStore) stored() []storage.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.Message(nil), f.saved...)
}
