package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

type Type string

const (
	CartChanged      Type = "cart-changed"
	WishlistChanged  Type = "wishlist-changed"
	ModalOpened      Type = "modal-opened"
	ModalClosed      Type = "modal-closed"
	MobileMenuOpened Type = "mobile-menu-opened"
	MobileMenuClosed Type = "mobile-menu-closed"
	OrderPlaced      Type = "order-placed"
)

// Payload field names are part of the interface other collaborators rely on;
// the json tags below are the contract.

type CartPayload struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
}

type WishlistPayload struct {
	ItemCount int `json:"itemCount"`
}

type ModalPayload struct {
	ModalID        string   `json:"modalId"`
	ActiveStackIDs []string `json:"activeStackIds"`
}

type MenuPayload struct {
	IsOpen bool `json:"isOpen"`
}

type OrderPayload struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
}

type Event struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

type Handler func(Event)

// Bus is a synchronous in-process pub/sub. Delivery happens in subscription
// order on the publishing goroutine, matching the cooperative single-task
// model of the storefront. A panicking subscriber is recovered and logged;
// nothing here is ever fatal.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]Handler
	all  []Handler
	log  *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bus{subs: make(map[Type][]Handler), log: log}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[t] = append(b.subs[t], h)
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type])+len(b.all))
	handlers = append(handlers, b.subs[e.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				zap.String("event", string(e.Type)), zap.Any("panic", r))
		}
	}()
	h(e)
}
