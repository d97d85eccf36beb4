package ui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidCommand   = errors.New("invalid command name")
)

var commandName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// CommandHandler receives the data attributes of the element that triggered
// the action (product-id, product-name, price, image and friends).
type CommandHandler func(ctx context.Context, payload map[string]string) error

// CommandRegistry is a typed mapping from action name to handler, replacing
// untyped data-action delegation on the document root. Names are validated
// at registration time so a typo fails fast instead of silently never firing.
type CommandRegistry struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]CommandHandler)}
}

func (r *CommandRegistry) Register(action string, h CommandHandler) error {
	if !commandName.MatchString(action) {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, action)
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrInvalidCommand, action)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[action]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, action)
	}
	r.handlers[action] = h
	return nil
}

func (r *CommandRegistry) Dispatch(ctx context.Context, action string, payload map[string]string) error {
	r.mu.RLock()
	h, ok := r.handlers[action]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, action)
	}
	return h(ctx, payload)
}

// Actions lists the registered action names, mainly for diagnostics.
func (r *CommandRegistry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}
