// Package sessiontest mints credentials and captures redirects for tests.
package sessiontest

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ziadkadry99/stock-console/internal/session"
)

var testSecret = []byte("stock-console-test-secret-0123456789")

// Token returns a signed credential for role expiring ttl from now.
// A negative ttl yields an already expired credential.
func Token(t testing.TB, role string, ttl time.Duration) string {
	t.Helper()
	claims := &session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role:     role,
		Username: "marie",
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

// Navigator records redirects.
type Navigator struct {
	mu        sync.Mutex
	redirects []string
}

func (n *Navigator) Redirect(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, url)
}

// Redirects returns every URL redirected to so far.
func (n *Navigator) Redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.redirects...)
}
