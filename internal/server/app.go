package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/fenggwsx/ChatRelay/internal/chat"
	"github.com/fenggwsx/ChatRelay/internal/config"
	"github.com/fenggwsx/ChatRelay/internal/storage"
)

// App coordinates the HTTP listener, the realtime engine, and storage.
type App struct {
	cfg       config.ServerConfig
	store     storage.Store
	engine    *chat.Engine
	closeOnce sync.Once
}

// NewApp constructs a server instance using the provided dependencies.
func NewApp(cfg config.ServerConfig, store storage.Store) *App {
	return &App{
		cfg:    cfg,
		store:  store,
		engine: chat.NewEngine(store, cfg.OutboxBuffer),
	}
}

// Engine exposes the realtime engine, mainly for tests.
func (a *App) Engine() *chat.Engine {
	return a.engine
}

// Handler returns the full route table.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", a.handleWebSocket)
	mux.HandleFunc("GET /messages/{room}", a.handleHistory)
	return mux
}

// Run serves until the context is canceled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.cfg.ReadTimeout,
	}

	go func() {
		<-ctx.Done()
		a.closeOnce.Do(func() {
			_ = srv.Shutdown(context.Background())
		})
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
