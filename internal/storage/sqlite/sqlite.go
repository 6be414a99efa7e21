package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/fenggwsx/ChatRelay/internal/config"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

// Store is a GORM-backed SQLite implementation of storage.Store.
type Store struct {
	db *gorm.DB
}

type messageModel struct {
	ID        string `gorm:"primaryKey"`
	Room      string `gorm:"index:idx_room_timestamp,priority:1"`
	User      string
	Text      string
	Timestamp time.Time `gorm:"index:idx_room_timestamp,priority:2"`
}

// NewStore opens a SQLite database at the provided path.
func NewStore(cfg config.DatabaseConfig) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies schema updates.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&messageModel{})
}

// SaveMessage appends a message record.
func (s *Store) SaveMessage(ctx context.Context, msg *storage.Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	model := messageModel{
		ID:        msg.ID,
		Room:      msg.Room,
		User:      msg.User,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

// ListRecentMessages returns the newest limit messages for the room in
// ascending timestamp order. The query is bounded on the descending
// side so a room past the cap yields its most recent window, then the
// slice is reversed for display order.
func (s *Store) ListRecentMessages(ctx context.Context, room string, limit int) ([]storage.Message, error) {
	var models []messageModel
	err := s.db.WithContext(ctx).
		Where("room = ?", room).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]storage.Message, len(models))
	for i, model := range models {
		messages[len(models)-1-i] = storage.Message{
			ID:        model.ID,
			Room:      model.Room,
			User:      model.User,
			Text:      model.Text,
			Timestamp: model.Timestamp,
		}
	}
	return messages, nil
}
