// Package dom models the browser document the console drives: named
// regions written wholesale, listener registries bound per region, and the
// command stream sent to the browser shell.
package dom

import "sync"

// Op names a command understood by the browser shell.
type Op string

const (
	OpMount         Op = "mount"
	OpPatch         Op = "patch"
	OpNavActive     Op = "nav-active"
	OpSetHash       Op = "set-hash"
	OpStorageRemove Op = "storage-remove"
	OpRedirect      Op = "redirect"
)

// Region names in the shell document.
const (
	RegionNav     = "nav"
	RegionMain    = "main"
	RegionOverlay = "overlay"
)

// Command is one instruction pushed to the browser.
type Command struct {
	Op     Op       `json:"op"`
	Region string   `json:"region,omitempty"`
	Target string   `json:"target,omitempty"`
	HTML   string   `json:"html,omitempty"`
	URL    string   `json:"url,omitempty"`
	Hash   string   `json:"hash,omitempty"`
	Keys   []string `json:"keys,omitempty"`
	Rev    uint64   `json:"rev,omitempty"`
}

// Sink delivers commands to the browser.
type Sink interface {
	Send(cmd Command) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(cmd Command) error

func (f SinkFunc) Send(cmd Command) error { return f(cmd) }

// Recorder is a Sink that keeps every command, for tests and offline
// rendering.
type Recorder struct {
	mu   sync.Mutex
	cmds []Command
}

func (r *Recorder) Send(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return nil
}

// Commands returns a copy of every recorded command.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.cmds...)
}

// Filter returns the recorded commands with the given op.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.Commands() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the most recent command with the given op.
func (r *Recorder) Last(op Op) (Command, bool) {
	cmds := r.Filter(op)
	if len(cmds) == 0 {
		return Command{}, false
	}
	return cmds[len(cmds)-1], true
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
}
