package ui

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier is what managers use for transient user-visible feedback.
type Notifier interface {
	Notify(message string, level Level)
}

// ToastSink renders toasts somewhere visible. The HTTP facade and tests
// supply implementations; managers never touch it directly.
type ToastSink interface {
	ShowToast(id, message string, level Level)
	HideToast(id string)
}

// ToastCenter shows a toast and auto-dismisses it after a bounded delay.
type ToastCenter struct {
	mu      sync.Mutex
	sink    ToastSink
	clock   clock.Clock
	dismiss time.Duration
	timers  map[string]*clock.Timer
}

func NewToastCenter(sink ToastSink, clk clock.Clock) *ToastCenter {
	if clk == nil {
		clk = clock.New()
	}
	return &ToastCenter{
		sink:    sink,
		clock:   clk,
		dismiss: 3 * time.Second,
		timers:  make(map[string]*clock.Timer),
	}
}

func (t *ToastCenter) Notify(message string, level Level) {
	if t.sink == nil {
		return
	}
	id := uuid.NewString()

	t.sink.ShowToast(id, message, level)

	t.mu.Lock()
	t.timers[id] = t.clock.AfterFunc(t.dismiss, func() {
		t.mu.Lock()
		delete(t.timers, id)
		t.mu.Unlock()
		t.sink.HideToast(id)
	})
	t.mu.Unlock()
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Level) {}
