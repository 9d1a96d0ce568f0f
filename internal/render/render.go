// Package render mounts views into the main region and runs the
// activators wired for the caller's role and route.
package render

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/views"
)

var (
	// ErrStale is returned when a newer navigation superseded the render.
	// Nothing was written to the document.
	ErrStale = errors.New("render superseded")
	// ErrUnauthenticated is returned after the guard redirected to login.
	// Nothing was written to the document.
	ErrUnauthenticated = errors.New("no session")
)

// SessionGuard is the part of session.Guard the renderer needs.
type SessionGuard interface {
	RequireSessionOrRedirect(ctx context.Context) (session.Session, bool)
}

// Gate serialises writes against newer navigations. Commit runs fn only
// while the caller's navigation is still the latest one and returns
// ErrStale otherwise. Staleness check and fn happen atomically.
type Gate interface {
	Commit(fn func() error) error
}

type gateFunc func(fn func() error) error

func (f gateFunc) Commit(fn func() error) error { return f(fn) }

// Target is one render request.
type Target struct {
	Key string
	ID  int

	// Gate guards every write of this render. Nil renders unconditionally.
	Gate Gate
	// Reload is handed to activators. Nil re-renders Key and ID directly.
	Reload func(ctx context.Context) error
	// Loading mounts the loading placeholder while the producer runs.
	Loading bool
}

// Config holds the renderer's collaborators.
type Config struct {
	Guard    SessionGuard
	Registry *views.Registry
	Main     *dom.Region
	Overlay  *dom.Overlay
	Hash     views.HashSetter
	Table    Table
	Logger   *slog.Logger
}

// Renderer mounts views. It keeps no navigation state; staleness is
// decided by the caller's Gate.
type Renderer struct {
	cfg    Config
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a renderer.
func New(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{cfg: cfg, logger: logger.With("component", "render")}
}

// Render mounts key directly, without any staleness guard.
func (r *Renderer) Render(ctx context.Context, key string, id int) error {
	return r.RenderTarget(ctx, Target{Key: key, ID: id})
}

// RenderTarget resolves the session, produces the view and mounts it
// followed by its activators. Unknown keys mount the not-found fragment.
// A failed producer mounts an inline error fragment and the error is
// returned wrapped.
func (r *Renderer) RenderTarget(ctx context.Context, t Target) error {
	s, ok := r.cfg.Guard.RequireSessionOrRedirect(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	gate := t.Gate
	if gate == nil {
		gate = gateFunc(r.commit)
	}

	v, ok := r.cfg.Registry.Lookup(t.Key)
	if !ok {
		r.logger.Info("unknown route", "key", t.Key)
		return gate.Commit(func() error {
			return r.mount(views.NotFoundHTML)
		})
	}

	if t.Loading {
		if err := gate.Commit(func() error { return r.mount(views.LoadingHTML) }); err != nil {
			return err
		}
	}

	id := 0
	if v.NeedsID {
		id = t.ID
	}
	html, err := v.Produce(views.WithSession(ctx, s), id)
	if err != nil {
		if ctx.Err() != nil {
			return ErrStale
		}
		r.logger.Warn("view failed", "key", t.Key, "id", id, "err", err)
		if cerr := gate.Commit(func() error { return r.mount(views.ErrorHTML(err)) }); cerr != nil {
			return cerr
		}
		return fmt.Errorf("rendering %s: %w", t.Key, err)
	}

	reload := t.Reload
	if reload == nil {
		reload = func(ctx context.Context) error { return r.Render(ctx, t.Key, t.ID) }
	}
	m := &views.Mount{
		Key:     t.Key,
		ID:      id,
		Session: s,
		Main:    r.cfg.Main,
		Overlay: r.cfg.Overlay,
		Hash:    r.cfg.Hash,
		Reload:  reload,
	}
	return gate.Commit(func() error {
		if err := r.mount(html); err != nil {
			return err
		}
		r.activate(ctx, m)
		return nil
	})
}

func (r *Renderer) commit(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

// mount closes any open modal and replaces the main region, which drops
// every listener bound against the previous view.
func (r *Renderer) mount(html template.HTML) error {
	if err := r.cfg.Overlay.Close(); err != nil {
		return err
	}
	return r.cfg.Main.Replace(string(html))
}

func (r *Renderer) activate(ctx context.Context, m *views.Mount) {
	steps := r.cfg.Table.Lookup(m.Session.Role, m.Key)
	if steps == nil {
		r.logger.Debug("no activation for route", "role", m.Session.Role, "key", m.Key)
		return
	}
	for _, a := range steps {
		if err := a.Run(ctx, m); err != nil {
			r.logger.Warn("activation failed", "key", m.Key, "activation", a.Name, "err", err)
		}
	}
}
