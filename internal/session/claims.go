package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the caller's role as carried by the credential.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole normalises a role claim: upper case, "ROLE_" prefix stripped.
func ParseRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	return Role(strings.TrimPrefix(s, "ROLE_"))
}

// IsAdmin reports whether r is the administrator role.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Claims is the credential payload issued by the inventory API.
type Claims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
}

var (
	// ErrNoCredential is returned by Decode for an empty credential.
	ErrNoCredential = errors.New("no credential")
	// ErrNoExpiry is returned by Decode for a credential without an exp claim.
	ErrNoExpiry = errors.New("credential has no expiry")
)

// Decode reads the payload of a credential without verifying its signature.
// The result only drives UI routing; the API re-checks every call.
func Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoCredential
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding credential: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrNoExpiry
	}
	return claims, nil
}

// Session is the view of a decoded, unexpired credential.
type Session struct {
	Role      Role
	Username  string
	Subject   string
	ExpiresAt time.Time
}

func sessionFrom(c *Claims) Session {
	name := c.Username
	if name == "" {
		name = c.Subject
	}
	return Session{
		Role:      ParseRole(c.Role),
		Username:  name,
		Subject:   c.Subject,
		ExpiresAt: c.ExpiresAt.Time,
	}
}
