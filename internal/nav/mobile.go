package nav

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

const DefaultBreakpoint = 768

// MenuView applies the open/closed presentation: state classes on the nav,
// the overlay, the toggle icon and the aria-expanded/aria-hidden pair.
type MenuView interface {
	SetOpen(open bool)
}

// Manager owns the slide-out menu's boolean state, the matching scroll lock
// and the resize auto-close.
type Manager struct {
	mu         sync.Mutex
	isOpen     bool
	view       MenuView
	scroll     ui.ScrollLock
	bus        *events.Bus
	breakpoint int
	resize     *ui.Debouncer
	log        *logger.Logger
}

type Options struct {
	View           MenuView
	Scroll         ui.ScrollLock
	Bus            *events.Bus
	Breakpoint     int
	ResizeDebounce time.Duration
	Clock          clock.Clock
	Logger         *logger.Logger
}

func NewManager(opts Options) *Manager {
	if opts.View == nil {
		opts.View = nopMenuView{}
	}
	if opts.Scroll == nil {
		opts.Scroll = ui.NopScrollLock{}
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = DefaultBreakpoint
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = 250 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Manager{
		view:       opts.View,
		scroll:     opts.Scroll,
		bus:        opts.Bus,
		breakpoint: opts.Breakpoint,
		resize:     ui.NewDebouncer(opts.Clock, opts.ResizeDebounce),
		log:        opts.Logger,
	}
}

func (m *Manager) Open() {
	m.mu.Lock()
	if m.isOpen {
		m.mu.Unlock()
		return
	}
	m.isOpen = true
	m.mu.Unlock()

	m.view.SetOpen(true)
	m.scroll.Lock()
	m.publish(events.MobileMenuOpened, true)
}

func (m *Manager) Close() {
	m.mu.Lock()
	if !m.isOpen {
		m.mu.Unlock()
		return
	}
	m.isOpen = false
	m.mu.Unlock()

	m.view.SetOpen(false)
	m.scroll.Unlock()
	m.publish(events.MobileMenuClosed, false)
}

func (m *Manager) Toggle() {
	if m.IsOpen() {
		m.Close()
		return
	}
	m.Open()
}

func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isOpen
}

// HandleResize auto-closes the menu once the viewport grows past the
// breakpoint while open. Debounced: only the last resize of a burst runs.
func (m *Manager) HandleResize(width int) {
	m.resize.Trigger(func() {
		if width > m.breakpoint && m.IsOpen() {
			m.Close()
		}
	})
}

func (m *Manager) publish(t events.Type, isOpen bool) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.Event{Type: t, Payload: events.MenuPayload{IsOpen: isOpen}})
}

type nopMenuView struct{}

func (nopMenuView) SetOpen(bool) {}
