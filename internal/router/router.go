// Package router turns location hash changes into renders. It suppresses
// navigations to the route already shown and makes sure only the latest
// navigation ever reaches the document.
package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/render"
	"github.com/ziadkadry99/stock-console/internal/session"
)

// ErrNotInitialized is returned for navigations before Initialize.
var ErrNotInitialized = errors.New("router not initialized")

// Renderer is the part of render.Renderer the router drives.
type Renderer interface {
	RenderTarget(ctx context.Context, t render.Target) error
}

// RoleSource resolves the landing route of the current session.
type RoleSource interface {
	CurrentRole(ctx context.Context) (session.Role, bool)
}

// Router owns the current route of one page session.
type Router struct {
	renderer Renderer
	roles    RoleSource
	logger   *slog.Logger

	mu          sync.Mutex
	initialized bool
	current     string
	gen         uint64
	cancel      context.CancelFunc
	observers   []func(hash string)
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates an uninitialized router.
func New(renderer Renderer, roles RoleSource, opts ...Option) *Router {
	r := &Router{renderer: renderer, roles: roles, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "router")
	return r
}

// Current returns the canonical hash of the route shown or being shown.
// It is empty before the first navigation and after a failed one.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnChange registers fn to run after every navigation that reached the
// document. fn runs with the router locked and must not call back into it.
func (r *Router) OnChange(fn func(hash string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Initialize renders the initial route: hash when present, otherwise the
// landing route of the current role. Calling it again behaves as Navigate.
func (r *Router) Initialize(ctx context.Context, hash string) error {
	r.mu.Lock()
	if !r.initialized {
		r.initialized = true
		r.current = ""
	}
	r.mu.Unlock()
	return r.Navigate(ctx, hash)
}

// Navigate handles a hash change and waits for its render.
func (r *Router) Navigate(ctx context.Context, raw string) error {
	return <-r.Dispatch(ctx, raw)
}

// Dispatch handles a hash change. Route bookkeeping happens before Dispatch
// returns, so calls are ordered as they arrive; the render itself runs in
// the background and its outcome is delivered on the returned channel.
// A render superseded by a later Dispatch reports render.ErrStale.
func (r *Router) Dispatch(ctx context.Context, raw string) <-chan error {
	return r.dispatch(ctx, raw, false)
}

// Reload renders the current route again even though it is unchanged.
func (r *Router) Reload(ctx context.Context) error {
	r.mu.Lock()
	initialized, current := r.initialized, r.current
	r.mu.Unlock()
	if !initialized {
		return ErrNotInitialized
	}
	if current == "" {
		return nil
	}
	return <-r.dispatch(ctx, current, true)
}

func (r *Router) resolve(ctx context.Context, raw string) Route {
	route := Parse(raw)
	if route.Key == "" {
		role, _ := r.roles.CurrentRole(ctx)
		route = Landing(role)
	}
	return route
}

func (r *Router) dispatch(ctx context.Context, raw string, force bool) <-chan error {
	done := make(chan error, 1)
	route := r.resolve(ctx, raw)
	hash := route.Hash()

	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		done <- ErrNotInitialized
		return done
	}
	if !force && hash == r.current {
		r.mu.Unlock()
		r.logger.Debug("route unchanged, skipping render", "route", hash)
		done <- nil
		return done
	}
	r.gen++
	gen := r.gen
	r.current = hash
	if r.cancel != nil {
		r.cancel()
	}
	navCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	r.logger.Debug("navigating", "route", hash, "generation", gen)
	go func() {
		err := r.renderer.RenderTarget(navCtx, render.Target{
			Key:     route.Key,
			ID:      route.ID,
			Gate:    commitGate{r: r, gen: gen},
			Reload:  r.Reload,
			Loading: true,
		})
		r.finish(gen, hash, err)
		done <- err
	}()
	return done
}

func (r *Router) finish(gen uint64, hash string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	r.cancel()
	r.cancel = nil

	switch {
	case err == nil:
		for _, fn := range r.observers {
			fn(hash)
		}
	case errors.Is(err, render.ErrStale), errors.Is(err, render.ErrUnauthenticated):
	default:
		r.logger.Warn("navigation failed", "route", hash, "err", err)
		r.current = ""
	}
}

// commitGate lets a render write only while its generation is the latest.
type commitGate struct {
	r   *Router
	gen uint64
}

func (g commitGate) Commit(fn func() error) error {
	g.r.mu.Lock()
	defer g.r.mu.Unlock()
	if g.r.gen != g.gen {
		return render.ErrStale
	}
	return fn()
}
