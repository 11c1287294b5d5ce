package picker

import (
	"sync"
	"sync/atomic"
)

// Readiness tracks the two external libraries. Each flag moves from false to
// true once and is never reset.
type Readiness struct {
	client atomic.Bool
	picker atomic.Bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewReadiness returns a tracker with both flags unset.
func NewReadiness() *Readiness {
	return &Readiness{done: make(chan struct{})}
}

// MarkClientLibrary sets the client-library flag and reports whether this
// call flipped it.
func (r *Readiness) MarkClientLibrary() bool {
	return r.mark(&r.client)
}

// MarkPickerLibrary sets the picker-library flag and reports whether this
// call flipped it.
func (r *Readiness) MarkPickerLibrary() bool {
	return r.mark(&r.picker)
}

func (r *Readiness) mark(flag *atomic.Bool) bool {
	if !flag.CompareAndSwap(false, true) {
		return false
	}
	if r.client.Load() && r.picker.Load() {
		r.doneOnce.Do(func() { close(r.done) })
	}
	return true
}

// ClientLibraryReady reports whether the client library has loaded.
func (r *Readiness) ClientLibraryReady() bool { return r.client.Load() }

// PickerLibraryReady reports whether the picker library has loaded.
func (r *Readiness) PickerLibraryReady() bool { return r.picker.Load() }

// Done is closed once both libraries are ready.
func (r *Readiness) Done() <-chan struct{} { return r.done }
