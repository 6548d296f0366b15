package watcher

import (
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces rapid change events into one callback invocation per
// quiet window. Paths are interned so a file saved many times in a burst
// counts once.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the quiet window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[unique.Make(path)] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	paths := d.drain(true)
	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush delivers any pending paths immediately and synchronously, for
// shutdown paths that must not lose a trailing event.
func (d *Debouncer) Flush() {
	paths := d.drain(false)
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

func (d *Debouncer) drain(fromTimer bool) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !fromTimer && d.timer != nil {
		if !d.timer.Stop() {
			// The timer already fired; let that invocation deliver.
			return nil
		}
	}
	d.timer = nil

	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	return paths
}
