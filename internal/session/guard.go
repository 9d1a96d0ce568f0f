// Package session decides whether the persisted credential allows the
// console to render, and tears the session down on logout.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/ziadkadry99/stock-console/internal/storage"
)

// Navigator leaves the hash-routed app for another URL.
type Navigator interface {
	Redirect(url string)
}

// Guard validates the credential held in client storage. It keeps no
// session state of its own: every call re-reads and re-decodes the
// credential.
type Guard struct {
	store    storage.Storage
	nav      Navigator
	loginURL string
	now      func() time.Time
	notify   func(ctx context.Context) error
	logger   *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithLogger sets the guard's logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithLogoutNotifier registers a best-effort call made before the
// credential is removed on logout.
func WithLogoutNotifier(fn func(ctx context.Context) error) Option {
	return func(g *Guard) { g.notify = fn }
}

// NewGuard creates a guard reading the credential from store and sending
// unauthenticated callers to loginURL.
func NewGuard(store storage.Storage, nav Navigator, loginURL string, opts ...Option) *Guard {
	g := &Guard{
		store:    store,
		nav:      nav,
		loginURL: loginURL,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "session")
	return g
}

// LoginURL returns the login boundary.
func (g *Guard) LoginURL() string { return g.loginURL }

// load returns the current session. Undecodable or expired credentials
// are removed so they are not decoded again.
func (g *Guard) load(ctx context.Context) (Session, bool) {
	token, ok, err := g.store.Get(ctx, storage.KeyToken)
	if err != nil {
		g.logger.Warn("reading credential", "err", err)
		return Session{}, false
	}
	if !ok || token == "" {
		return Session{}, false
	}

	claims, err := Decode(token)
	if err != nil {
		g.logger.Info("discarding unreadable credential", "err", err)
		g.clear(ctx)
		return Session{}, false
	}
	if !claims.ExpiresAt.Time.After(g.now()) {
		g.logger.Info("discarding expired credential", "expired_at", claims.ExpiresAt.Time)
		g.clear(ctx)
		return Session{}, false
	}
	return sessionFrom(claims), true
}

func (g *Guard) clear(ctx context.Context) {
	if err := g.store.Remove(ctx, storage.KeyToken); err != nil {
		g.logger.Warn("clearing credential", "err", err)
	}
}

// IsAuthenticated reports whether a decodable, unexpired credential exists.
func (g *Guard) IsAuthenticated(ctx context.Context) bool {
	_, ok := g.load(ctx)
	return ok
}

// Session returns the current session without redirecting.
func (g *Guard) Session(ctx context.Context) (Session, bool) {
	return g.load(ctx)
}

// CurrentRole returns the role of the current session, if any.
func (g *Guard) CurrentRole(ctx context.Context) (Role, bool) {
	s, ok := g.load(ctx)
	if !ok {
		return "", false
	}
	return s.Role, true
}

// RequireSessionOrRedirect returns the current session. When there is
// none it redirects to the login boundary and returns false; callers must
// stop processing.
func (g *Guard) RequireSessionOrRedirect(ctx context.Context) (Session, bool) {
	s, ok := g.load(ctx)
	if !ok {
		g.nav.Redirect(g.loginURL)
		return Session{}, false
	}
	return s, true
}

// Logout removes every session key and redirects to the login boundary.
func (g *Guard) Logout(ctx context.Context) {
	if g.notify != nil {
		if err := g.notify(ctx); err != nil {
			g.logger.Warn("logout notification failed", "err", err)
		}
	}
	if err := g.store.Remove(ctx, storage.SessionKeys...); err != nil {
		g.logger.Warn("removing session keys", "err", err)
	}
	g.nav.Redirect(g.loginURL)
}
