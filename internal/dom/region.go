package dom

import (
	"fmt"
	"sync"
)

// Region is one named container in the shell document. Its content is only
// ever replaced wholesale; each replacement bumps the revision and drops
// every listener bound against the previous content.
type Region struct {
	name      string
	sink      Sink
	listeners *Listeners

	mu        sync.Mutex
	html      string
	rev       uint64
	fragments map[string]string
}

// NewRegion returns an empty region writing to sink.
func NewRegion(name string, sink Sink) *Region {
	return &Region{
		name:      name,
		sink:      sink,
		listeners: NewListeners(),
		fragments: make(map[string]string),
	}
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// Listeners returns the registry for controls inside this region.
func (r *Region) Listeners() *Listeners { return r.listeners }

// Replace swaps the whole content of the region.
func (r *Region) Replace(html string) error {
	r.mu.Lock()
	r.rev++
	r.html = html
	clear(r.fragments)
	rev := r.rev
	r.mu.Unlock()

	r.listeners.Reset()
	if err := r.sink.Send(Command{Op: OpMount, Region: r.name, HTML: html, Rev: rev}); err != nil {
		return fmt.Errorf("mounting %s: %w", r.name, err)
	}
	return nil
}

// Patch replaces the content of the element with id target. Listeners
// stay bound since the controls around target survive.
func (r *Region) Patch(target, html string) error {
	r.mu.Lock()
	r.fragments[target] = html
	rev := r.rev
	r.mu.Unlock()

	if err := r.sink.Send(Command{Op: OpPatch, Region: r.name, Target: target, HTML: html, Rev: rev}); err != nil {
		return fmt.Errorf("patching %s#%s: %w", r.name, target, err)
	}
	return nil
}

// Signal sends a content-free command such as OpNavActive about target.
func (r *Region) Signal(op Op, target string) error {
	r.mu.Lock()
	rev := r.rev
	r.mu.Unlock()

	if err := r.sink.Send(Command{Op: op, Region: r.name, Target: target, Rev: rev}); err != nil {
		return fmt.Errorf("signalling %s on %s: %w", op, r.name, err)
	}
	return nil
}

// HTML returns the markup last mounted.
func (r *Region) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html
}

// Fragment returns the markup last patched into target since the last
// Replace.
func (r *Region) Fragment(target string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	html, ok := r.fragments[target]
	return html, ok
}

// Rev returns the current revision. Zero means nothing was mounted yet.
func (r *Region) Rev() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rev
}

// Overlay is the modal region. At most one modal is open; opening another
// replaces it, and closing drops its listeners.
type Overlay struct {
	*Region
}

// NewOverlay returns a closed overlay writing to sink.
func NewOverlay(sink Sink) *Overlay {
	return &Overlay{Region: NewRegion(RegionOverlay, sink)}
}

// Open shows html as the modal.
func (o *Overlay) Open(html string) error {
	return o.Replace(html)
}

// Close hides the modal if one is open.
func (o *Overlay) Close() error {
	if !o.IsOpen() {
		return nil
	}
	return o.Replace("")
}

// IsOpen reports whether a modal is showing.
func (o *Overlay) IsOpen() bool {
	return o.HTML() != ""
}
