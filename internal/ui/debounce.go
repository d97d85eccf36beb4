package ui

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer runs only the last function of a burst: each Trigger cancels the
// pending timer and restarts the window. Used for search input (300ms) and
// resize handling (250ms).
type Debouncer struct {
	mu     sync.Mutex
	clock  clock.Clock
	window time.Duration
	timer  *clock.Timer
}

func NewDebouncer(clk clock.Clock, window time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer{clock: clk, window: window}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
