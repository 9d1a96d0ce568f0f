package views

import (
	"context"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/api/apitest"
	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/session"
)

type hashRecorder struct {
	mu     sync.Mutex
	hashes []string
}

func (h *hashRecorder) SetHash(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes = append(h.hashes, hash)
}

func (h *hashRecorder) last() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hashes) == 0 {
		return ""
	}
	return h.hashes[len(h.hashes)-1]
}

type testMount struct {
	*Mount
	rec     *dom.Recorder
	hash    *hashRecorder
	reloads int
}

func newTestMount(t *testing.T, key string, html string) *testMount {
	t.Helper()
	rec := &dom.Recorder{}
	tm := &testMount{rec: rec, hash: &hashRecorder{}}
	tm.Mount = &Mount{
		Key:     key,
		Session: session.Session{Role: session.RoleAdmin, Username: "marie"},
		Main:    dom.NewRegion(dom.RegionMain, rec),
		Overlay: dom.NewOverlay(rec),
		Hash:    tm.hash,
	}
	tm.Reload = func(context.Context) error {
		tm.reloads++
		return nil
	}
	if err := tm.Main.Replace(html); err != nil {
		t.Fatalf("mounting: %v", err)
	}
	return tm
}

func dispatch(t *testing.T, l *dom.Listeners, ev dom.Event) {
	t.Helper()
	if err := l.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch %s/%s: %v", ev.Control, ev.Type, err)
	}
}

// countControls counts elements carrying data-control=control in markup.
func countControls(t *testing.T, markup, control string) int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parsing markup: %v", err)
	}
	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, a := range node.Attr {
				if a.Key == "data-control" && a.Val == control {
					n++
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return n
}

func adminCtx() context.Context {
	return WithSession(context.Background(), session.Session{Role: session.RoleAdmin, Username: "marie"})
}

func employeeCtx() context.Context {
	return WithSession(context.Background(), session.Session{Role: session.RoleEmployee, Username: "paul"})
}

func inventory() *apitest.Fake {
	return &apitest.Fake{
		ProductList: []api.Product{
			{ID: 1, Name: "Écran 24 pouces", Reference: "ECR-24", Price: 149.9, Quantity: 12, CategoryID: 1, SupplierID: 1, Description: "Dalle **IPS**<script>alert(1)</script>"},
			{ID: 2, Name: "Clavier mécanique", Reference: "CLV-01", Price: 89, Quantity: 2, CategoryID: 2, SupplierID: 2},
			{ID: 3, Name: "Souris sans fil", Reference: "SOU-03", Price: 25, Quantity: 0, CategoryID: 2, SupplierID: 1},
		},
		CategoryList: []api.Category{
			{ID: 1, Name: "Affichage"},
			{ID: 2, Name: "Périphériques"},
		},
		SupplierList: []api.Supplier{
			{ID: 1, Name: "Dupont SA", Email: "contact@dupont.fr"},
			{ID: 2, Name: "Martin & Fils"},
		},
		OrderList: []api.Order{
			{ID: 10, Reference: "CMD-10", ProductID: 2, SupplierID: 2, Quantity: 20, Status: api.OrderPending},
			{ID: 11, Reference: "CMD-11", ProductID: 1, SupplierID: 1, Quantity: 5, Status: api.OrderDelivered},
		},
		UserList: []api.User{
			{ID: 1, Username: "marie", Role: "ADMIN"},
			{ID: 2, Username: "paul", Email: "paul@example.com", Role: "EMPLOYEE"},
		},
		RequestList: []api.Request{
			{ID: 1, ProductID: 2, Quantity: 10, Status: "PENDING"},
		},
	}
}
