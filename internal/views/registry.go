// Package views produces the markup of every console route and the
// activators that wire each view's controls once it is mounted.
package views

import (
	"context"
	"html/template"
	"sort"

	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/session"
)

// Route keys.
const (
	KeyDashboard        = "dashboard"
	KeyCategories       = "categories"
	KeyCategoryProducts = "category-product-list"
	KeyProducts         = "product-list"
	KeyProductDetail    = "product-detail"
	KeySuppliers        = "suppliers"
	KeySupplierDetail   = "supplier-detail"
	KeyOrders           = "orders"
	KeyUsers            = "users"
)

// Producer returns the markup of a view. id is zero for views without an
// entity parameter. Empty collections yield an empty-state fragment, not an
// error.
type Producer func(ctx context.Context, id int) (template.HTML, error)

// View is one registry entry.
type View struct {
	Key     string
	NeedsID bool
	Produce Producer
}

// Registry maps route keys to views. It is fixed at construction.
type Registry struct {
	views map[string]View
}

// NewRegistry builds a registry. A later view with the same key replaces an
// earlier one.
func NewRegistry(views ...View) *Registry {
	r := &Registry{views: make(map[string]View, len(views))}
	for _, v := range views {
		r.views[v.Key] = v
	}
	return r
}

// Lookup returns the view registered under key.
func (r *Registry) Lookup(key string) (View, bool) {
	v, ok := r.views[key]
	return v, ok
}

// Keys returns every registered key in lexical order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.views))
	for k := range r.views {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HashSetter changes the browser's location hash. The router reacts to the
// resulting hashchange; setting the hash never renders by itself.
type HashSetter interface {
	SetHash(hash string)
}

// Mount is what an activator works against: the freshly mounted view and
// the page services around it.
type Mount struct {
	Key     string
	ID      int
	Session session.Session
	Main    *dom.Region
	Overlay *dom.Overlay
	Hash    HashSetter

	// Reload renders the current route again, e.g. after a form changed
	// the underlying data.
	Reload func(ctx context.Context) error
}

// Activator wires listeners for a mounted view. It runs only after the
// view's markup is in the main region.
type Activator func(ctx context.Context, m *Mount) error

type sessionKey struct{}

// WithSession attaches the caller's session for producers that vary their
// markup by role.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached by WithSession, or the zero
// session.
func SessionFrom(ctx context.Context) session.Session {
	s, _ := ctx.Value(sessionKey{}).(session.Session)
	return s
}

// Hash builds the location hash for a route.
func Hash(key string, id int) string {
	if id > 0 {
		return "#/" + key + "/" + itoa(id)
	}
	return "#/" + key
}
