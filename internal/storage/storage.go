// Package storage holds the per-client key/value state the browser would
// otherwise keep in localStorage: the session credential and its
// companions.
package storage

import (
	"context"
	"sync"
)

// Well-known keys written by the login page and read by the session guard.
const (
	KeyToken    = "token"
	KeyRole     = "role"
	KeyUsername = "username"
)

// SessionKeys lists every key cleared on logout.
var SessionKeys = []string{KeyToken, KeyRole, KeyUsername}

// Storage is a string key/value store scoped to one browser client.
type Storage interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Memory is a Storage kept in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Mirror wraps a Storage and reports removals so the browser copy can be
// cleared too.
type Mirror struct {
	Storage
	onRemove func(keys []string)
}

// NewMirror returns a Mirror over backend. onRemove may be nil.
func NewMirror(backend Storage, onRemove func(keys []string)) *Mirror {
	return &Mirror{Storage: backend, onRemove: onRemove}
}

// Remove deletes keys from the backend, then notifies the browser.
func (m *Mirror) Remove(ctx context.Context, keys ...string) error {
	if err := m.Storage.Remove(ctx, keys...); err != nil {
		return err
	}
	if m.onRemove != nil && len(keys) > 0 {
		m.onRemove(keys)
	}
	return nil
}
