package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/api/apitest"
	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/session/sessiontest"
	"github.com/ziadkadry99/stock-console/internal/storage"
)

const loginURL = "/login.html"

func setupTest(t *testing.T) (*Console, *apitest.Fake) {
	t.Helper()
	fake := &apitest.Fake{
		ProductList:  []api.Product{{ID: 1, Name: "Écran", Quantity: 8, CategoryID: 1, SupplierID: 1}},
		CategoryList: []api.Category{{ID: 1, Name: "Affichage"}},
		SupplierList: []api.Supplier{{ID: 1, Name: "Dupont SA"}},
		OrderList:    []api.Order{{ID: 1, Reference: "CMD-1", ProductID: 1, SupplierID: 1, Status: api.OrderPending}},
	}
	c := New(Config{
		LoginURL: loginURL,
		LowStock: 5,
		Backend:  func(api.TokenSource) api.Backend { return fake },
	})
	return c, fake
}

func setupRouter(c *Console) chi.Router {
	r := chi.NewRouter()
	c.RegisterRoutes(r)
	return r
}

func hello(t *testing.T, role, hash string) Message {
	t.Helper()
	msg := Message{Type: MsgHello, Hash: hash}
	if role != "" {
		msg.Storage = map[string]string{storage.KeyToken: sessiontest.Token(t, role, time.Hour)}
	}
	return msg
}

func TestServeIndex(t *testing.T) {
	c, _ := setupTest(t)
	r := setupRouter(c)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{`data-region="main"`, `data-region="nav"`, `data-region="overlay"`, "/ws"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected shell to contain %q", want)
		}
	}
}

func TestStatusEndpoint(t *testing.T) {
	c, _ := setupTest(t)
	r := setupRouter(c)

	req := httptest.NewRequest(http.MethodGet, "/api/console/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp statusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Pages != 0 || len(resp.Routes) != 9 {
		t.Errorf("unexpected status %+v", resp)
	}
}

func TestHelloRendersLanding(t *testing.T) {
	c, _ := setupTest(t)
	rec := &dom.Recorder{}
	page := c.NewPage("client-1", rec)

	if err := page.Handle(context.Background(), hello(t, "ADMIN", "")); err != nil {
		t.Fatalf("hello: %v", err)
	}
	if got := page.Router().Current(); got != "#/dashboard" {
		t.Errorf("Current() = %q, want #/dashboard", got)
	}
	if !strings.Contains(page.Main().HTML(), "Tableau de bord") {
		t.Errorf("expected dashboard, got %s", page.Main().HTML())
	}

	var navMounted bool
	for _, cmd := range rec.Filter(dom.OpMount) {
		if cmd.Region == dom.RegionNav && strings.Contains(cmd.HTML, "nav-users") {
			navMounted = true
		}
	}
	if !navMounted {
		t.Error("expected the admin navbar to be mounted")
	}
	active, ok := rec.Last(dom.OpNavActive)
	if !ok || active.Target != "nav-dashboard" {
		t.Errorf("expected dashboard highlighted, got %+v", active)
	}
}

func TestHelloWithoutCredentialRedirects(t *testing.T) {
	c, _ := setupTest(t)
	rec := &dom.Recorder{}
	page := c.NewPage("client-1", rec)

	if err := page.Handle(context.Background(), hello(t, "", "#/orders")); err != nil {
		t.Fatalf("hello: %v", err)
	}
	redirect, ok := rec.Last(dom.OpRedirect)
	if !ok || redirect.URL != loginURL {
		t.Fatalf("expected redirect to %s, got %+v", loginURL, redirect)
	}
	if n := len(rec.Filter(dom.OpMount)); n != 0 {
		t.Errorf("expected nothing mounted, got %d mounts", n)
	}
}

func TestExpiredCredentialIsClearedInBrowser(t *testing.T) {
	c, _ := setupTest(t)
	rec := &dom.Recorder{}
	page := c.NewPage("client-1", rec)

	msg := Message{Type: MsgHello, Storage: map[string]string{
		storage.KeyToken: sessiontest.Token(t, "ADMIN", -time.Minute),
	}}
	if err := page.Handle(context.Background(), msg); err != nil {
		t.Fatalf("hello: %v", err)
	}
	removed, ok := rec.Last(dom.OpStorageRemove)
	if !ok || len(removed.Keys) != 1 || removed.Keys[0] != storage.KeyToken {
		t.Errorf("expected the token removed from the browser, got %+v", removed)
	}
	if _, ok := rec.Last(dom.OpRedirect); !ok {
		t.Error("expected a redirect to login")
	}
}

func TestDuplicateHashChangeRendersOnce(t *testing.T) {
	c, fake := setupTest(t)
	page := c.NewPage("client-1", &dom.Recorder{})
	ctx := context.Background()

	if err := page.Handle(ctx, hello(t, "EMPLOYEE", "")); err != nil {
		t.Fatalf("hello: %v", err)
	}
	page.Handle(ctx, Message{Type: MsgHashChange, Hash: "#/orders"})
	page.Handle(ctx, Message{Type: MsgPopState, Hash: "#/orders"})
	page.Wait()

	if n := fake.CallCount("orders"); n != 1 {
		t.Errorf("expected orders fetched once, got %d", n)
	}
	if !strings.Contains(page.Main().HTML(), "CMD-1") {
		t.Errorf("expected the orders view, got %s", page.Main().HTML())
	}
}

func TestEventsFollowRegionRevision(t *testing.T) {
	c, _ := setupTest(t)
	rec := &dom.Recorder{}
	page := c.NewPage("client-1", rec)
	ctx := context.Background()

	if err := page.Handle(ctx, hello(t, "ADMIN", "#/product-list")); err != nil {
		t.Fatalf("hello: %v", err)
	}
	click := dom.Event{Type: "click", Control: "product-card", Region: dom.RegionMain, Data: map[string]string{"id": "1"}}

	click.Rev = page.Main().Rev() - 1
	if err := page.Handle(ctx, Message{Type: MsgEvent, Event: click}); err != nil {
		t.Fatalf("stale event: %v", err)
	}
	if _, ok := rec.Last(dom.OpSetHash); ok {
		t.Fatal("event against replaced content must be dropped")
	}

	click.Rev = page.Main().Rev()
	if err := page.Handle(ctx, Message{Type: MsgEvent, Event: click}); err != nil {
		t.Fatalf("event: %v", err)
	}
	if cmd, ok := rec.Last(dom.OpSetHash); !ok || cmd.Hash != "#/product-detail/1" {
		t.Errorf("expected hash change to product detail, got %+v", cmd)
	}
}

func TestNavLogout(t *testing.T) {
	c, _ := setupTest(t)
	rec := &dom.Recorder{}
	page := c.NewPage("client-1", rec)
	ctx := context.Background()

	if err := page.Handle(ctx, hello(t, "ADMIN", "")); err != nil {
		t.Fatalf("hello: %v", err)
	}
	var navRev uint64
	for _, cmd := range rec.Filter(dom.OpMount) {
		if cmd.Region == dom.RegionNav {
			navRev = cmd.Rev
		}
	}
	ev := dom.Event{Type: "click", Control: "logout", Region: dom.RegionNav, Rev: navRev}
	if err := page.Handle(ctx, Message{Type: MsgEvent, Event: ev}); err != nil {
		t.Fatalf("logout: %v", err)
	}

	removed, ok := rec.Last(dom.OpStorageRemove)
	if !ok || len(removed.Keys) != len(storage.SessionKeys) {
		t.Errorf("expected every session key removed, got %+v", removed)
	}
	if cmd, ok := rec.Last(dom.OpRedirect); !ok || cmd.URL != loginURL {
		t.Errorf("expected redirect to login, got %+v", cmd)
	}
}

func TestUnknownMessage(t *testing.T) {
	c, _ := setupTest(t)
	page := c.NewPage("client-1", &dom.Recorder{})
	if err := page.Handle(context.Background(), Message{Type: "resize"}); err == nil {
		t.Error("expected error for unknown message type")
	}
}

func TestWebSocketSession(t *testing.T) {
	c, _ := setupTest(t)
	server := httptest.NewServer(setupRouter(c))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Set-Cookie"), ClientCookie) {
		t.Error("expected a client id cookie")
	}

	if err := conn.WriteJSON(hello(t, "ADMIN", "#/suppliers")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var cmd dom.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			t.Fatalf("read: %v", err)
		}
		if cmd.Op == dom.OpMount && cmd.Region == dom.RegionMain && strings.Contains(cmd.HTML, "Dupont SA") {
			break
		}
	}
	if n := c.Pages(); n != 1 {
		t.Errorf("expected one connected page, got %d", n)
	}
}
