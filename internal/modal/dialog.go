package modal

import (
	"fmt"

	"github.com/google/uuid"
)

// Button is one action in a synthesized dialog footer.
type Button struct {
	Action string // "confirm", "cancel", "ok"
	Label  string
	Style  string
}

// DialogSpec describes a one-off confirm/alert dialog for the factory to
// materialize.
type DialogSpec struct {
	Title   string
	Message string
	Buttons []Button
}

// DialogFactory builds and tears down the presentation for synthesized
// dialogs. The default factory keeps them purely in memory.
type DialogFactory interface {
	New(id string, spec DialogSpec) Surface
	Remove(id string)
}

type ConfirmConfig struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

type AlertConfig struct {
	Title      string
	Message    string
	ButtonText string
}

// Confirm synthesizes a one-off dialog, registers and opens it, and returns
// a channel that receives exactly one value: true when the confirm button is
// activated, false on cancel or dismissal. The synthesized dialog is removed
// after the close transition completes.
func (m *Manager) Confirm(cfg ConfirmConfig) <-chan bool {
	if cfg.Title == "" {
		cfg.Title = "Confirm"
	}
	if cfg.Message == "" {
		cfg.Message = "Are you sure?"
	}
	if cfg.ConfirmText == "" {
		cfg.ConfirmText = "Confirm"
	}
	if cfg.CancelText == "" {
		cfg.CancelText = "Cancel"
	}

	id := fmt.Sprintf("confirmModal-%s", uuid.NewString())
	spec := DialogSpec{
		Title:   cfg.Title,
		Message: cfg.Message,
		Buttons: []Button{
			{Action: "cancel", Label: cfg.CancelText, Style: "btn-secondary"},
			{Action: "confirm", Label: cfg.ConfirmText, Style: "btn-primary"},
		},
	}
	return m.openSynthesized(id, spec)
}

// Alert synthesizes a single-button dialog. The channel receives true once
// the button is activated (or false when dismissed another way).
func (m *Manager) Alert(cfg AlertConfig) <-chan bool {
	if cfg.Title == "" {
		cfg.Title = "Alert"
	}
	if cfg.ButtonText == "" {
		cfg.ButtonText = "OK"
	}

	id := fmt.Sprintf("alertModal-%s", uuid.NewString())
	spec := DialogSpec{
		Title:   cfg.Title,
		Message: cfg.Message,
		Buttons: []Button{
			{Action: "ok", Label: cfg.ButtonText, Style: "btn-primary"},
		},
	}
	return m.openSynthesized(id, spec)
}

func (m *Manager) openSynthesized(id string, spec DialogSpec) <-chan bool {
	surface := m.factory.New(id, spec)
	result := make(chan bool, 1)

	m.mu.Lock()
	m.registerLocked(id, surface, DefaultConfig(), true)
	m.pending[id] = result
	m.mu.Unlock()

	// Registration just happened under this manager, so Open cannot fail.
	_ = m.Open(id)
	return result
}

// Activate presses a button in a synthesized dialog. The pending result is
// delivered exactly once no matter how many activations race in.
func (m *Manager) Activate(id, action string) {
	m.mu.Lock()
	ch, ok := m.pending[id]
	if ok {
		delete(m.pending, id)
	}
	m.mu.Unlock()

	if ok {
		ch <- action == "confirm" || action == "ok"
	}
	m.Close(id)
}

// basicDialog is the in-memory surface for headless use: it records the
// state the manager drives and exposes button actions as focusables.
type basicDialog struct {
	id         string
	spec       DialogSpec
	visible    bool
	zIndex     int
	ariaHidden bool
}

func (d *basicDialog) SetVisible(v bool)    { d.visible = v }
func (d *basicDialog) SetZIndex(z int)      { d.zIndex = z }
func (d *basicDialog) SetAriaHidden(h bool) { d.ariaHidden = h }

func (d *basicDialog) Focusables() []string {
	out := make([]string, 0, len(d.spec.Buttons)+1)
	out = append(out, d.id+"-close")
	for _, b := range d.spec.Buttons {
		out = append(out, d.id+"-"+b.Action)
	}
	return out
}

type basicDialogFactory struct{}

func (basicDialogFactory) New(id string, spec DialogSpec) Surface {
	return &basicDialog{id: id, spec: spec}
}

func (basicDialogFactory) Remove(string) {}
