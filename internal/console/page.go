package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/navbar"
	"github.com/ziadkadry99/stock-console/internal/render"
	"github.com/ziadkadry99/stock-console/internal/router"
	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/storage"
	"github.com/ziadkadry99/stock-console/internal/views"
)

// Message types sent by the browser shell.
const (
	MsgHello      = "hello"
	MsgHashChange = "hashchange"
	MsgPopState   = "popstate"
	MsgEvent      = "event"
)

// Message is one message from the browser shell. Hello carries the
// initial hash and the browser's copy of the session keys.
type Message struct {
	Type    string            `json:"type"`
	Hash    string            `json:"hash,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
	Event   dom.Event         `json:"event"`
}

// Page is one browser tab: its regions, session guard, router and nav bar.
// Messages must be handled one at a time in arrival order.
type Page struct {
	id     string
	sink   dom.Sink
	store  storage.Storage
	logger *slog.Logger

	guard   *session.Guard
	nav     *dom.Region
	main    *dom.Region
	overlay *dom.Overlay
	bar     *navbar.Bar
	router  *router.Router
	routes  *views.Registry

	pending sync.WaitGroup
}

// NewPage builds a page session for clientID writing to sink.
func (c *Console) NewPage(clientID string, sink dom.Sink) *Page {
	p := &Page{
		id:    uuid.NewString(),
		sink:  sink,
		store: c.cfg.Storage(clientID),
	}
	p.logger = c.logger.With("page", p.id, "client", clientID)

	mirror := storage.NewMirror(p.store, p.storageRemoved)
	backend := c.cfg.Backend(func(ctx context.Context) (string, error) {
		token, _, err := mirror.Get(ctx, storage.KeyToken)
		return token, err
	})

	opts := []session.Option{session.WithLogger(p.logger)}
	if lo, ok := backend.(interface{ Logout(context.Context) error }); ok {
		opts = append(opts, session.WithLogoutNotifier(lo.Logout))
	}
	p.guard = session.NewGuard(mirror, p, c.cfg.LoginURL, opts...)

	p.nav = dom.NewRegion(dom.RegionNav, sink)
	p.main = dom.NewRegion(dom.RegionMain, sink)
	p.overlay = dom.NewOverlay(sink)
	p.bar = navbar.New(p.nav, p, p.guard, navbar.WithLogger(p.logger))

	mods := views.NewModules(backend, c.cfg.LowStock)
	p.routes = mods.Registry()
	renderer := render.New(render.Config{
		Guard:    p.guard,
		Registry: p.routes,
		Main:     p.main,
		Overlay:  p.overlay,
		Hash:     p,
		Table:    render.DefaultTable(mods, p.bar.Activate),
		Logger:   p.logger,
	})
	p.router = router.New(renderer, p.guard, router.WithLogger(p.logger))
	p.router.OnChange(func(hash string) {
		if err := p.bar.Sync(hash); err != nil {
			p.logger.Warn("syncing navbar", "err", err)
		}
	})
	return p
}

// ID returns the page session id.
func (p *Page) ID() string { return p.id }

// Router returns the page's router.
func (p *Page) Router() *router.Router { return p.router }

// Routes returns the page's view registry.
func (p *Page) Routes() *views.Registry { return p.routes }

// Main returns the main region.
func (p *Page) Main() *dom.Region { return p.main }

// Handle processes one message from the shell. Hash changes return once
// the navigation is ordered; their render completes in the background.
func (p *Page) Handle(ctx context.Context, msg Message) error {
	switch msg.Type {
	case MsgHello:
		return p.hello(ctx, msg)
	case MsgHashChange, MsgPopState:
		p.follow(msg.Hash, p.router.Dispatch(ctx, msg.Hash))
		return nil
	case MsgEvent:
		return p.event(ctx, msg.Event)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// Wait blocks until every background render has finished.
func (p *Page) Wait() { p.pending.Wait() }

func (p *Page) hello(ctx context.Context, msg Message) error {
	for _, key := range storage.SessionKeys {
		var err error
		if v := msg.Storage[key]; v != "" {
			err = p.store.Set(ctx, key, v)
		} else {
			err = p.store.Remove(ctx, key)
		}
		if err != nil {
			return fmt.Errorf("syncing %s: %w", key, err)
		}
	}

	if s, ok := p.guard.Session(ctx); ok {
		if err := p.bar.Mount(s); err != nil {
			p.logger.Warn("mounting navbar", "err", err)
		}
	}
	p.report(msg.Hash, p.router.Initialize(ctx, msg.Hash))
	return nil
}

func (p *Page) follow(hash string, done <-chan error) {
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		p.report(hash, <-done)
	}()
}

func (p *Page) report(hash string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, render.ErrStale):
		p.logger.Debug("navigation superseded", "hash", hash)
	case errors.Is(err, render.ErrUnauthenticated):
		p.logger.Info("navigation without session", "hash", hash)
	default:
		p.logger.Warn("navigation failed", "hash", hash, "err", err)
	}
}

// event delivers a delegated DOM event. Events raised against content
// that has since been replaced are dropped.
func (p *Page) event(ctx context.Context, ev dom.Event) error {
	var region *dom.Region
	switch ev.Region {
	case dom.RegionNav:
		region = p.nav
	case dom.RegionOverlay:
		region = p.overlay.Region
	case dom.RegionMain, "":
		region = p.main
	default:
		return fmt.Errorf("unknown region %q", ev.Region)
	}

	if rev := region.Rev(); ev.Rev != rev {
		p.logger.Debug("dropping stale event", "region", region.Name(), "control", ev.Control, "rev", ev.Rev, "current", rev)
		return nil
	}
	err := region.Listeners().Dispatch(ctx, ev)
	if errors.Is(err, dom.ErrNoListener) {
		p.logger.Debug("no listener", "region", region.Name(), "control", ev.Control, "event", ev.Type)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %s on %s: %w", ev.Type, ev.Control, region.Name(), err)
	}
	return nil
}

// SetHash asks the shell to change location.hash. The resulting
// hashchange message drives the router.
func (p *Page) SetHash(hash string) {
	p.send(dom.Command{Op: dom.OpSetHash, Hash: hash})
}

// Redirect sends the browser to url, leaving the console.
func (p *Page) Redirect(url string) {
	p.send(dom.Command{Op: dom.OpRedirect, URL: url})
}

func (p *Page) storageRemoved(keys []string) {
	p.send(dom.Command{Op: dom.OpStorageRemove, Keys: keys})
}

func (p *Page) send(cmd dom.Command) {
	if err := p.sink.Send(cmd); err != nil {
		p.logger.Warn("sending command", "op", cmd.Op, "err", err)
	}
}
