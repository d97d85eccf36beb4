package modal

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

var ErrNotRegistered = errors.New("modal not registered")

// Phase is the per-dialog lifecycle: Closed -> Opening -> Open -> Closing
// -> Closed. Opening and Closing cover the visual transition window.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

const (
	baseZIndex   = 1050
	zIndexStep   = 10
	backdropGap  = 5
	focusDelay   = 100 * time.Millisecond
	transitionMs = 300 * time.Millisecond
)

type Config struct {
	CloseOnBackdrop bool
	CloseOnEscape   bool
	LockBody        bool
	FocusTrap       bool
}

func DefaultConfig() Config {
	return Config{CloseOnBackdrop: true, CloseOnEscape: true, LockBody: true, FocusTrap: true}
}

// Surface is the dialog's presentation binding. The manager drives it and
// never reads state back out of it.
type Surface interface {
	SetVisible(visible bool)
	SetZIndex(z int)
	SetAriaHidden(hidden bool)
	Focusables() []string
}

// Focuser moves keyboard focus around the page and reports where it is.
type Focuser interface {
	FocusElement(id string)
	ActiveElement() string
}

// Backdrops creates and destroys the dimmed overlay behind each open
// modal. Every open modal owns exactly one backdrop.
type Backdrops interface {
	Show(modalID string, zIndex int)
	Hide(modalID string)
}

// Key is a keyboard event fed into HandleKey.
type Key struct {
	Name  string // "Escape", "Tab"
	Shift bool
}

type registration struct {
	id          string
	surface     Surface
	cfg         Config
	phase       Phase
	synthesized bool
	prevFocus   string
}

// Manager is the registry of dialogs and the single owner of the active
// stack, scroll-lock accounting and focus bookkeeping.
type Manager struct {
	mu        sync.Mutex
	regs      map[string]*registration
	stack     []string
	lockCount int

	scroll    ui.ScrollLock
	backdrops Backdrops
	focuser   Focuser
	factory   DialogFactory

	pending map[string]chan bool

	clock clock.Clock
	bus   *events.Bus
	log   *logger.Logger
}

// Deps carries the presentation bindings. Any nil dependency falls back to
// a no-op so the manager works headless.
type Deps struct {
	Scroll    ui.ScrollLock
	Backdrops Backdrops
	Focuser   Focuser
	Factory   DialogFactory
	Clock     clock.Clock
	Bus       *events.Bus
	Logger    *logger.Logger
}

func NewManager(deps Deps) *Manager {
	if deps.Scroll == nil {
		deps.Scroll = ui.NopScrollLock{}
	}
	if deps.Backdrops == nil {
		deps.Backdrops = nopBackdrops{}
	}
	if deps.Focuser == nil {
		deps.Focuser = nopFocuser{}
	}
	if deps.Factory == nil {
		deps.Factory = basicDialogFactory{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Manager{
		regs:      make(map[string]*registration),
		pending:   make(map[string]chan bool),
		scroll:    deps.Scroll,
		backdrops: deps.Backdrops,
		focuser:   deps.Focuser,
		factory:   deps.Factory,
		clock:     deps.Clock,
		bus:       deps.Bus,
		log:       deps.Logger,
	}
}

// Register adds a dialog to the registry. Registering an id twice is not an
// error: the last registration wins and a warning is logged. If the previous
// registration is still open it is closed first, so the stack and scroll-lock
// accounting never reference a replaced record.
func (m *Manager) Register(id string, surface Surface, cfg Config) {
	m.mu.Lock()
	reg, ok := m.regs[id]
	open := ok && (reg.phase == PhaseOpen || reg.phase == PhaseOpening)
	m.mu.Unlock()

	if open {
		m.Close(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(id, surface, cfg, false)
}

func (m *Manager) registerLocked(id string, surface Surface, cfg Config, synthesized bool) {
	if _, ok := m.regs[id]; ok {
		m.log.Warn("duplicate modal registration, last one wins", zap.String("modal_id", id))
	}
	m.regs[id] = &registration{
		id:          id,
		surface:     surface,
		cfg:         cfg,
		phase:       PhaseClosed,
		synthesized: synthesized,
	}
}

// Open pushes the dialog onto the active stack. It is a no-op when the
// dialog is already open or opening; duplicate stack entries cannot occur.
func (m *Manager) Open(id string) error {
	m.mu.Lock()
	reg, ok := m.regs[id]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("modal not found", zap.String("modal_id", id))
		return ErrNotRegistered
	}
	if reg.phase == PhaseOpen || reg.phase == PhaseOpening {
		m.mu.Unlock()
		return nil
	}

	reg.prevFocus = m.focuser.ActiveElement()

	if reg.cfg.LockBody {
		m.lockCount++
		if m.lockCount == 1 {
			m.scroll.Lock()
		}
	}

	m.stack = append(m.stack, id)
	z := baseZIndex + zIndexStep*len(m.stack)

	reg.phase = PhaseOpening
	reg.surface.SetZIndex(z)
	reg.surface.SetVisible(true)
	reg.surface.SetAriaHidden(false)
	m.backdrops.Show(id, z-backdropGap)

	stackCopy := m.stackLocked()
	m.mu.Unlock()

	// Focus moves after the open transition has started. The dialog may be
	// gone by the time the timer fires, so the callback re-checks.
	m.clock.AfterFunc(focusDelay, func() {
		m.mu.Lock()
		reg, ok := m.regs[id]
		if !ok || reg.phase != PhaseOpening {
			m.mu.Unlock()
			return
		}
		reg.phase = PhaseOpen
		var first string
		if reg.cfg.FocusTrap {
			if f := reg.surface.Focusables(); len(f) > 0 {
				first = f[0]
			}
		}
		m.mu.Unlock()

		if first != "" {
			m.focuser.FocusElement(first)
		}
	})

	m.publish(events.ModalOpened, id, stackCopy)
	return nil
}

// Close pops the dialog from the stack; an empty id closes the top of the
// stack. Closing an id that is not open is a benign no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	if id == "" {
		if len(m.stack) == 0 {
			m.mu.Unlock()
			return
		}
		id = m.stack[len(m.stack)-1]
	}

	reg, ok := m.regs[id]
	if !ok || (reg.phase != PhaseOpen && reg.phase != PhaseOpening) {
		m.mu.Unlock()
		return
	}

	idx := -1
	for i, sid := range m.stack {
		if sid == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		m.stack = append(m.stack[:idx], m.stack[idx+1:]...)
	}

	reg.phase = PhaseClosing
	reg.surface.SetVisible(false)
	m.backdrops.Hide(id)

	if reg.cfg.LockBody {
		m.lockCount--
		if m.lockCount == 0 {
			m.scroll.Unlock()
		}
	}

	prevFocus := reg.prevFocus
	reg.prevFocus = ""

	// A dismissal with no button press still settles the pending result.
	if ch, pending := m.pending[id]; pending {
		delete(m.pending, id)
		ch <- false
	}

	stackCopy := m.stackLocked()
	m.mu.Unlock()

	if prevFocus != "" {
		m.focuser.FocusElement(prevFocus)
	}

	m.clock.AfterFunc(transitionMs, func() {
		m.mu.Lock()
		reg, ok := m.regs[id]
		if !ok || reg.phase != PhaseClosing {
			m.mu.Unlock()
			return
		}
		reg.phase = PhaseClosed
		reg.surface.SetAriaHidden(true)
		synthesized := reg.synthesized
		if synthesized {
			delete(m.regs, id)
		}
		m.mu.Unlock()

		if synthesized {
			m.factory.Remove(id)
		}
	})

	m.publish(events.ModalClosed, id, stackCopy)
}

// CloseAll closes every open modal, top first.
func (m *Manager) CloseAll() {
	for {
		m.mu.Lock()
		if len(m.stack) == 0 {
			m.mu.Unlock()
			return
		}
		top := m.stack[len(m.stack)-1]
		m.mu.Unlock()
		m.Close(top)
	}
}

// HandleKey processes a document-level key event. Escape closes only the
// top-of-stack modal; Tab and Shift+Tab wrap within the top modal's
// focusable set. The return value reports whether the event was consumed.
func (m *Manager) HandleKey(k Key) bool {
	m.mu.Lock()
	if len(m.stack) == 0 {
		m.mu.Unlock()
		return false
	}
	top := m.stack[len(m.stack)-1]
	reg := m.regs[top]

	switch k.Name {
	case "Escape":
		closeIt := reg.cfg.CloseOnEscape
		m.mu.Unlock()
		if closeIt {
			m.Close(top)
		}
		return closeIt

	case "Tab":
		if !reg.cfg.FocusTrap {
			m.mu.Unlock()
			return false
		}
		focusables := reg.surface.Focusables()
		m.mu.Unlock()
		if len(focusables) == 0 {
			return false
		}

		first := focusables[0]
		last := focusables[len(focusables)-1]
		active := m.focuser.ActiveElement()

		if k.Shift && active == first {
			m.focuser.FocusElement(last)
			return true
		}
		if !k.Shift && active == last {
			m.focuser.FocusElement(first)
			return true
		}
		return false
	}

	m.mu.Unlock()
	return false
}

// HandleBackdropClick closes the modal when its config allows it.
func (m *Manager) HandleBackdropClick(id string) {
	m.mu.Lock()
	reg, ok := m.regs[id]
	closeIt := ok && reg.cfg.CloseOnBackdrop
	m.mu.Unlock()

	if closeIt {
		m.Close(id)
	}
}

func (m *Manager) IsOpen(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sid := range m.stack {
		if sid == id {
			return true
		}
	}
	return false
}

// ActiveID returns the top of the stack, or "" when nothing is open.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) ActiveStack() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stackLocked()
}

func (m *Manager) Phase(id string) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reg, ok := m.regs[id]; ok {
		return reg.phase
	}
	return PhaseClosed
}

func (m *Manager) stackLocked() []string {
	out := make([]string, len(m.stack))
	copy(out, m.stack)
	return out
}

func (m *Manager) publish(t events.Type, id string, stack []string) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.Event{
		Type:    t,
		Payload: events.ModalPayload{ModalID: id, ActiveStackIDs: stack},
	})
}

type nopBackdrops struct{}

func (nopBackdrops) Show(string, int) {}
func (nopBackdrops) Hide(string)      {}

type nopFocuser struct{}

func (nopFocuser) FocusElement(string)   {}
func (nopFocuser) ActiveElement() string { return "" }
