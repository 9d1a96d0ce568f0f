// Package console serves the inventory console: the browser shell, and one
// server-driven page session per WebSocket connection.
package console

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/storage"
	"github.com/ziadkadry99/stock-console/internal/views"
)

// Config holds what every page session is built from.
type Config struct {
	APIBaseURL     string
	LoginURL       string
	LowStock       int
	RequestTimeout time.Duration

	// Storage returns the credential store of a browser client. Nil keeps
	// credentials in memory for the lifetime of the connection.
	Storage func(clientID string) storage.Storage
	// Backend builds the REST backend of a page. Nil uses api.Client.
	Backend func(tokens api.TokenSource) api.Backend
	Logger  *slog.Logger
}

// Console provides the shell page and the page-session socket.
type Console struct {
	cfg    Config
	logger *slog.Logger
	routes []string
	pages  atomic.Int64
}

// New creates a Console.
func New(cfg Config) *Console {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Storage == nil {
		cfg.Storage = func(string) storage.Storage { return storage.NewMemory() }
	}
	if cfg.Backend == nil {
		cfg.Backend = func(tokens api.TokenSource) api.Backend {
			return api.NewClient(cfg.APIBaseURL, tokens, cfg.RequestTimeout)
		}
	}
	return &Console{
		cfg:    cfg,
		logger: logger.With("component", "console"),
		routes: views.NewModules(nil, cfg.LowStock).Registry().Keys(),
	}
}

// RegisterRoutes mounts the shell, the status endpoint and the socket.
func (c *Console) RegisterRoutes(r chi.Router) {
	r.Get("/", c.ServeIndex)
	r.Get("/api/console/status", c.handleStatus)
	r.Get("/ws", c.handleWebSocket)
}

// Pages returns the number of connected page sessions.
func (c *Console) Pages() int64 { return c.pages.Load() }
