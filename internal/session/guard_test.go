package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/session/sessiontest"
	"github.com/ziadkadry99/stock-console/internal/storage"
)

const loginURL = "/login.html"

func newGuard(t *testing.T, token string) (*session.Guard, *storage.Memory, *sessiontest.Navigator) {
	t.Helper()
	store := storage.NewMemory()
	if token != "" {
		store.Set(context.Background(), storage.KeyToken, token)
	}
	nav := &sessiontest.Navigator{}
	return session.NewGuard(store, nav, loginURL), store, nav
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", sessiontest.Token(t, "ADMIN", time.Hour), true},
		{"expired", sessiontest.Token(t, "ADMIN", -time.Minute), false},
		{"garbage", "not-a-token", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := newGuard(t, tt.token)
			if got := g.IsAuthenticated(context.Background()); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiredCredentialIsClearedAndRedirects(t *testing.T) {
	g, store, nav := newGuard(t, sessiontest.Token(t, "EMPLOYEE", -time.Second))
	ctx := context.Background()

	if g.IsAuthenticated(ctx) {
		t.Fatal("expired credential must not authenticate")
	}
	if _, ok, _ := store.Get(ctx, storage.KeyToken); ok {
		t.Error("expired credential should have been cleared")
	}
	if _, ok := g.RequireSessionOrRedirect(ctx); ok {
		t.Fatal("RequireSessionOrRedirect should stop processing")
	}
	if got := nav.Redirects(); len(got) != 1 || got[0] != loginURL {
		t.Errorf("expected one redirect to %s, got %v", loginURL, got)
	}
}

func TestCorruptCredentialIsCleared(t *testing.T) {
	g, store, _ := newGuard(t, "a.b.c")
	ctx := context.Background()

	if _, ok := g.CurrentRole(ctx); ok {
		t.Error("corrupt credential should not yield a role")
	}
	if _, ok, _ := store.Get(ctx, storage.KeyToken); ok {
		t.Error("corrupt credential should have been cleared")
	}
}

func TestCurrentRoleNormalised(t *testing.T) {
	g, _, _ := newGuard(t, sessiontest.Token(t, "role_admin", time.Hour))
	role, ok := g.CurrentRole(context.Background())
	if !ok || role != session.RoleAdmin {
		t.Errorf("CurrentRole() = %q, %v; want ADMIN", role, ok)
	}
}

func TestRequireSessionReturnsSession(t *testing.T) {
	g, _, nav := newGuard(t, sessiontest.Token(t, "EMPLOYEE", time.Hour))
	s, ok := g.RequireSessionOrRedirect(context.Background())
	if !ok {
		t.Fatal("expected session")
	}
	if s.Role != session.RoleEmployee || s.Username != "marie" {
		t.Errorf("unexpected session %+v", s)
	}
	if len(nav.Redirects()) != 0 {
		t.Error("no redirect expected for a valid session")
	}
}

func TestClockControlsExpiry(t *testing.T) {
	store := storage.NewMemory()
	store.Set(context.Background(), storage.KeyToken, sessiontest.Token(t, "ADMIN", time.Hour))
	later := func() time.Time { return time.Now().Add(2 * time.Hour) }
	g := session.NewGuard(store, &sessiontest.Navigator{}, loginURL, session.WithClock(later))

	if g.IsAuthenticated(context.Background()) {
		t.Error("credential should be expired for a clock two hours ahead")
	}
}

func TestLogoutClearsAllKeys(t *testing.T) {
	g, store, nav := newGuard(t, sessiontest.Token(t, "ADMIN", time.Hour))
	ctx := context.Background()
	store.Set(ctx, storage.KeyRole, "ADMIN")
	store.Set(ctx, storage.KeyUsername, "marie")

	notified := false
	g = session.NewGuard(store, nav, loginURL, session.WithLogoutNotifier(func(context.Context) error {
		notified = true
		return errors.New("server unreachable")
	}))
	g.Logout(ctx)

	for _, k := range storage.SessionKeys {
		if _, ok, _ := store.Get(ctx, k); ok {
			t.Errorf("key %s survived logout", k)
		}
	}
	if !notified {
		t.Error("logout notifier not called")
	}
	if got := nav.Redirects(); len(got) != 1 || got[0] != loginURL {
		t.Errorf("expected redirect to login, got %v", got)
	}
}

func TestDecodeWithoutExpiry(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "ADMIN"}).
		SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	if _, err := session.Decode(tok); !errors.Is(err, session.ErrNoExpiry) {
		t.Errorf("Decode() error = %v, want ErrNoExpiry", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := session.Decode(""); !errors.Is(err, session.ErrNoCredential) {
		t.Errorf("Decode(\"\") error = %v, want ErrNoCredential", err)
	}
}
