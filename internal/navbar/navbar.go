// Package navbar renders the navigation bar, wires its buttons and keeps
// the active highlight on the button of the current route.
package navbar

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/router"
	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/views"
)

// ControlLogout is the logout button.
const ControlLogout = "logout"

// Item is one navigation button.
type Item struct {
	Key   string
	Label string
}

// Control returns the data-control name of the button.
func (i Item) Control() string { return "nav-" + i.Key }

var (
	employeeItems = []Item{
		{views.KeyProducts, "Produits"},
		{views.KeyCategories, "Catégories"},
		{views.KeySuppliers, "Fournisseurs"},
		{views.KeyOrders, "Commandes"},
	}
	adminItems = []Item{
		{views.KeyDashboard, "Tableau de bord"},
		{views.KeyProducts, "Produits"},
		{views.KeyCategories, "Catégories"},
		{views.KeySuppliers, "Fournisseurs"},
		{views.KeyOrders, "Commandes"},
		{views.KeyUsers, "Utilisateurs"},
	}
)

// Items returns the buttons shown to role.
func Items(role session.Role) []Item {
	if role.IsAdmin() {
		return adminItems
	}
	return employeeItems
}

// parents maps detail routes to the list they belong to.
var parents = map[string]string{
	views.KeyProductDetail:    views.KeyProducts,
	views.KeyCategoryProducts: views.KeyCategories,
	views.KeySupplierDetail:   views.KeySuppliers,
}

// Logouter ends the session.
type Logouter interface {
	Logout(ctx context.Context)
}

var barTmpl = template.Must(template.New("navbar").Parse(`<nav class="navbar">
  <span class="brand">Stock Console</span>
  <ul>{{range .Items}}
    <li><button type="button" class="nav-item{{if eq .Key $.Active}} active{{end}}" data-control="{{.Control}}">{{.Label}}</button></li>{{end}}
  </ul>
  {{if .Username}}<span class="user">{{.Username}}</span>{{end}}
  <button type="button" class="logout" data-control="logout">Déconnexion</button>
</nav>`))

// Bar is the navigation bar of one page session.
type Bar struct {
	region *dom.Region
	setter views.HashSetter
	guard  Logouter
	logger *slog.Logger

	mu      sync.Mutex
	mounted bool
	role    session.Role
	user    string
	items   []Item
	current string
	active  string
}

// Option configures a Bar.
type Option func(*Bar)

// WithLogger sets the bar's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bar) { b.logger = l }
}

// New creates a bar writing into region. Buttons change the hash through
// hash; the router does the rendering.
func New(region *dom.Region, hash views.HashSetter, guard Logouter, opts ...Option) *Bar {
	b := &Bar{region: region, setter: hash, guard: guard, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "navbar")
	return b
}

// Mount writes the bar for s into the nav region and binds its buttons.
func (b *Bar) Mount(s session.Session) error {
	b.mu.Lock()
	b.role, b.user = s.Role, s.Username
	b.items = Items(s.Role)
	b.active = b.activeLocked()
	data := struct {
		Items    []Item
		Active   string
		Username string
	}{b.items, b.active, b.user}
	b.mu.Unlock()

	var buf bytes.Buffer
	if err := barTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering navbar: %w", err)
	}
	if err := b.region.Replace(buf.String()); err != nil {
		return err
	}

	b.mu.Lock()
	b.mounted = true
	b.mu.Unlock()
	b.Bind()
	return nil
}

// Bind attaches one click handler per button. Binding again replaces the
// handlers, so it is safe to call after every mount.
func (b *Bar) Bind() {
	b.mu.Lock()
	items := b.items
	b.mu.Unlock()

	l := b.region.Listeners()
	for _, item := range items {
		target := views.Hash(item.Key, 0)
		l.Bind(item.Control(), "click", func(context.Context, dom.Event) error {
			b.setter.SetHash(target)
			return nil
		})
	}
	l.Bind(ControlLogout, "click", func(ctx context.Context, _ dom.Event) error {
		b.logger.Info("logout requested")
		b.guard.Logout(ctx)
		return nil
	})
}

// Sync moves the highlight to the button of hash. Detail routes highlight
// their list. A route without a button clears the highlight.
func (b *Bar) Sync(hash string) error {
	b.mu.Lock()
	b.current = hash
	active := b.activeLocked()
	changed := active != b.active
	b.active = active
	mounted := b.mounted
	b.mu.Unlock()

	if !mounted || !changed {
		return nil
	}
	control := ""
	if active != "" {
		control = Item{Key: active}.Control()
	}
	return b.region.Signal(dom.OpNavActive, control)
}

// activeLocked returns the button key for b.current. b.mu must be held.
func (b *Bar) activeLocked() string {
	key := router.Parse(b.current).Key
	if parent, ok := parents[key]; ok {
		key = parent
	}
	for _, item := range b.items {
		if item.Key == key {
			return key
		}
	}
	return ""
}

// Active returns the key of the highlighted button, or "".
func (b *Bar) Active() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Activate refreshes the bar after a view was mounted: it remounts when
// the session changed and syncs the highlight to the mounted route.
func (b *Bar) Activate(_ context.Context, m *views.Mount) error {
	b.mu.Lock()
	stale := !b.mounted || b.role != m.Session.Role || b.user != m.Session.Username
	b.mu.Unlock()

	hash := views.Hash(m.Key, m.ID)
	if stale {
		b.mu.Lock()
		b.current = hash
		b.mu.Unlock()
		return b.Mount(m.Session)
	}
	return b.Sync(hash)
}
