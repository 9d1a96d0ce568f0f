package dom

import (
	"context"
	"errors"
	"sync"
)

// ErrNoListener is returned by Dispatch when nothing is bound for an event.
var ErrNoListener = errors.New("no listener bound")

// Event is a delegated DOM event raised by the browser shell.
type Event struct {
	Type    string            `json:"event"`
	Control string            `json:"control"`
	Region  string            `json:"region,omitempty"`
	Rev     uint64            `json:"rev,omitempty"`
	Value   string            `json:"value,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
	Form    map[string]string `json:"form,omitempty"`
}

// Handler reacts to one event.
type Handler func(ctx context.Context, ev Event) error

type listenerKey struct {
	control string
	event   string
}

// Listeners is a registry holding at most one handler per (control,
// event). Binding again replaces the previous handler, so re-running an
// activator never stacks duplicate listeners.
type Listeners struct {
	mu       sync.RWMutex
	handlers map[listenerKey]Handler
}

// NewListeners returns an empty registry.
func NewListeners() *Listeners {
	return &Listeners{handlers: make(map[listenerKey]Handler)}
}

// Bind registers h for event on control, replacing any earlier handler.
func (l *Listeners) Bind(control, event string, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[listenerKey{control, event}] = h
}

// Unbind removes the handler for event on control.
func (l *Listeners) Unbind(control, event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, listenerKey{control, event})
}

// Bound reports whether a handler exists for event on control.
func (l *Listeners) Bound(control, event string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.handlers[listenerKey{control, event}]
	return ok
}

// Len returns the number of bound handlers.
func (l *Listeners) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.handlers)
}

// Reset drops every handler.
func (l *Listeners) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.handlers)
}

// Dispatch runs the handler bound for ev. The registry lock is not held
// while the handler runs, so handlers may rebind.
func (l *Listeners) Dispatch(ctx context.Context, ev Event) error {
	l.mu.RLock()
	h, ok := l.handlers[listenerKey{ev.Control, ev.Type}]
	l.mu.RUnlock()
	if !ok {
		return ErrNoListener
	}
	return h(ctx, ev)
}
