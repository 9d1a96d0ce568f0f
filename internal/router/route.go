package router

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/views"
)

// Route is a parsed location hash.
type Route struct {
	Key string
	ID  int
}

// Hash returns the canonical hash of r, e.g. "#/product-detail/42".
func (r Route) Hash() string { return views.Hash(r.Key, r.ID) }

// Parse reads a raw location hash. The entity id may follow the key as a
// path segment or sit in an id query parameter, so "#/product-detail/42",
// "#product-detail?id=42" and "product-detail/42" are the same route. An
// empty key means no route was given.
func Parse(raw string) Route {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")

	var query string
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s, query = s[:i], s[i+1:]
	}
	parts := strings.Split(strings.Trim(s, "/"), "/")

	r := Route{Key: parts[0]}
	if len(parts) > 1 {
		r.ID = positive(parts[1])
	}
	if r.ID == 0 && query != "" {
		if q, err := url.ParseQuery(query); err == nil {
			r.ID = positive(q.Get("id"))
		}
	}
	return r
}

// Landing returns the route shown when the hash is empty.
func Landing(role session.Role) Route {
	if role.IsAdmin() {
		return Route{Key: views.KeyDashboard}
	}
	return Route{Key: views.KeyProducts}
}

func positive(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
