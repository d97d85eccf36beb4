package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

// ErrInvalidProduct rejects adds with a missing id or name, or a negative
// price. Nothing is persisted or rendered on rejection.
var ErrInvalidProduct = errors.New("invalid product")

// Snapshot is the render state handed to registered views. Views are pure
// consumers; they never feed data back into the manager.
type Snapshot struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	Subtotal  float64           `json:"subtotal"`
}

// View is any surface that mirrors cart state: the navbar badge, the cart
// page list, the totals block. Rendering the same snapshot twice must
// produce the same result.
type View interface {
	RenderCart(s Snapshot)
}

// Manager owns the in-memory cart list and mirrors every mutation to the
// persistent store before re-rendering all registered views and emitting a
// cart-changed notification.
type Manager struct {
	mu       sync.Mutex
	items    []domain.CartItem
	views    []View
	store    *store.Store
	bus      *events.Bus
	notifier ui.Notifier
	clock    clock.Clock
	log      *logger.Logger
}

func NewManager(st *store.Store, bus *events.Bus, notifier ui.Notifier, clk clock.Clock, log *logger.Logger) *Manager {
	if notifier == nil {
		notifier = ui.NopNotifier{}
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	m := &Manager{
		store:    st,
		bus:      bus,
		notifier: notifier,
		clock:    clk,
		log:      log,
	}
	m.items = st.Cart(context.Background())
	return m
}

// RegisterView adds a render surface and immediately brings it up to date.
func (m *Manager) RegisterView(v View) {
	m.mu.Lock()
	m.views = append(m.views, v)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	v.RenderCart(snap)
}

// AddItem merges by product id: an existing entry gains the requested
// quantity (default 1), a new entry is appended with quantity floored at 1.
func (m *Manager) AddItem(ctx context.Context, item domain.CartItem) error {
	if err := validate(item); err != nil {
		return err
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	m.mu.Lock()
	merged := false
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.AddedAt = m.clock.Now()
		m.items = append(m.items, item)
	}
	m.mu.Unlock()

	if err := m.commit(ctx); err != nil {
		return err
	}

	if merged {
		m.notifier.Notify(fmt.Sprintf("Updated %s quantity in cart", item.Name), ui.LevelSuccess)
	} else {
		m.notifier.Notify(fmt.Sprintf("%s added to cart!", item.Name), ui.LevelSuccess)
	}
	return nil
}

// RemoveItem is a benign no-op when the id is absent; it persists, renders
// and notifies only when a removal actually occurred.
func (m *Manager) RemoveItem(ctx context.Context, id string) error {
	m.mu.Lock()
	var removed *domain.CartItem
	for i := range m.items {
		if m.items[i].ID == id {
			it := m.items[i]
			removed = &it
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if removed == nil {
		return nil
	}
	if err := m.commit(ctx); err != nil {
		return err
	}
	m.notifier.Notify(fmt.Sprintf("%s removed from cart", removed.Name), ui.LevelInfo)
	return nil
}

// SetQuantity replaces the entry's quantity outright; qty <= 0 removes the
// entry. No-op when the id is absent.
func (m *Manager) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return m.RemoveItem(ctx, id)
	}

	m.mu.Lock()
	found := false
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Quantity = qty
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return nil
	}
	return m.commit(ctx)
}

func (m *Manager) Increment(ctx context.Context, id string) error {
	m.mu.Lock()
	qty := 0
	for i := range m.items {
		if m.items[i].ID == id {
			qty = m.items[i].Quantity + 1
			break
		}
	}
	m.mu.Unlock()

	if qty == 0 {
		return nil
	}
	return m.SetQuantity(ctx, id, qty)
}

// Decrement at quantity 1 removes the item instead of leaving it at 0.
func (m *Manager) Decrement(ctx context.Context, id string) error {
	m.mu.Lock()
	qty := -1
	for i := range m.items {
		if m.items[i].ID == id {
			qty = m.items[i].Quantity - 1
			break
		}
	}
	m.mu.Unlock()

	switch {
	case qty < 0:
		return nil
	case qty == 0:
		return m.RemoveItem(ctx, id)
	default:
		return m.SetQuantity(ctx, id, qty)
	}
}

// Clear empties the cart unconditionally. Calling it on an already empty
// cart still persists, renders and notifies, and never errors twice.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()

	if err := m.commit(ctx); err != nil {
		return err
	}
	m.notifier.Notify("Cart cleared", ui.LevelInfo)
	return nil
}

func (m *Manager) Items() []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return itemCount(m.items)
}

func (m *Manager) Subtotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return subtotal(m.items)
}

// Total applies the tax rate to the subtotal and adds flat shipping.
func (m *Manager) Total(taxRate, shipping float64) float64 {
	return m.Subtotal()*(1+taxRate) + shipping
}

func (m *Manager) Contains(id string) bool {
	return m.QuantityOf(id) > 0
}

func (m *Manager) QuantityOf(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			return m.items[i].Quantity
		}
	}
	return 0
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// commit persists the snapshot, re-renders every view and emits the
// cart-changed notification. All successful mutations funnel through here.
func (m *Manager) commit(ctx context.Context) error {
	m.mu.Lock()
	snap := m.snapshotLocked()
	views := make([]View, len(m.views))
	copy(views, m.views)
	m.mu.Unlock()

	if err := m.store.SetCart(ctx, snap.Items); err != nil {
		m.log.Error("persist cart", zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	for _, v := range views {
		v.RenderCart(snap)
	}
	m.bus.Publish(events.Event{
		Type:    events.CartChanged,
		Payload: events.CartPayload{ItemCount: snap.ItemCount, Subtotal: snap.Subtotal},
	})
	return nil
}

func (m *Manager) snapshotLocked() Snapshot {
	items := make([]domain.CartItem, len(m.items))
	copy(items, m.items)
	return Snapshot{
		Items:     items,
		ItemCount: itemCount(m.items),
		Subtotal:  subtotal(m.items),
	}
}

func validate(item domain.CartItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	}
	if item.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}
	return nil
}

func itemCount(items []domain.CartItem) int {
	total := 0
	for i := range items {
		total += items[i].Quantity
	}
	return total
}

func subtotal(items []domain.CartItem) float64 {
	total := 0.0
	for i := range items {
		total += items[i].Price * float64(items[i].Quantity)
	}
	return total
}
