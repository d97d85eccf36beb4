package wishlist

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

var ErrInvalidProduct = errors.New("invalid product")

type Snapshot struct {
	Items     []domain.WishlistItem `json:"items"`
	ItemCount int                   `json:"itemCount"`
}

// View mirrors wishlist state: the badge, the wishlist page, heart icons.
type View interface {
	RenderWishlist(s Snapshot)
}

// CartAdder is the slice of the cart manager MoveToCart needs.
type CartAdder interface {
	AddItem(ctx context.Context, item domain.CartItem) error
}

// Manager owns the saved-items list. Same shape as the cart manager but
// without quantities: duplicates are an informational no-op, not a merge.
type Manager struct {
	mu       sync.Mutex
	items    []domain.WishlistItem
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
	m.items = st.Wishlist(context.Background())
	return m
}

func (m *Manager) RegisterView(v View) {
	m.mu.Lock()
	m.views = append(m.views, v)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	v.RenderWishlist(snap)
}

// AddItem appends the item unless its id is already saved, in which case
// the user gets a notice and observable state does not change.
func (m *Manager) AddItem(ctx context.Context, item domain.WishlistItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}

	m.mu.Lock()
	if m.containsLocked(item.ID) {
		m.mu.Unlock()
		m.notifier.Notify(fmt.Sprintf("%s is already in your wishlist", displayName(item.Name)), ui.LevelInfo)
		return nil
	}
	item.AddedAt = m.clock.Now()
	m.items = append(m.items, item)
	m.mu.Unlock()

	if err := m.commit(ctx); err != nil {
		return err
	}
	m.notifier.Notify(fmt.Sprintf("%s added to wishlist!", displayName(item.Name)), ui.LevelSuccess)
	return nil
}

func (m *Manager) RemoveItem(ctx context.Context, id string) error {
	m.mu.Lock()
	var removed *domain.WishlistItem
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
	m.notifier.Notify(fmt.Sprintf("%s removed from wishlist", displayName(removed.Name)), ui.LevelInfo)
	return nil
}

// Toggle adds the item when absent and removes it when present, mirroring
// the heart-icon interaction. It reports whether the item is saved after
// the call.
func (m *Manager) Toggle(ctx context.Context, item domain.WishlistItem) (bool, error) {
	if m.Contains(item.ID) {
		return false, m.RemoveItem(ctx, item.ID)
	}
	return true, m.AddItem(ctx, item)
}

func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()

	if err := m.commit(ctx); err != nil {
		return err
	}
	m.notifier.Notify("Wishlist cleared", ui.LevelInfo)
	return nil
}

// MoveToCart adds the saved item to the cart, then removes it here. When
// the cart rejects the item the wishlist keeps it: either both steps happen
// or no observable state changes.
func (m *Manager) MoveToCart(ctx context.Context, id string, cart CartAdder) error {
	m.mu.Lock()
	var item *domain.WishlistItem
	for i := range m.items {
		if m.items[i].ID == id {
			it := m.items[i]
			item = &it
			break
		}
	}
	m.mu.Unlock()

	if item == nil {
		return nil
	}

	err := cart.AddItem(ctx, domain.CartItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Quantity: 1,
	})
	if err != nil {
		m.log.Warn("move to cart rejected", zap.String("product_id", id), zap.Error(err))
		return fmt.Errorf("move to cart: %w", err)
	}

	if err := m.RemoveItem(ctx, id); err != nil {
		return err
	}
	m.notifier.Notify(fmt.Sprintf("%s moved to cart", displayName(item.Name)), ui.LevelSuccess)
	return nil
}

func (m *Manager) Items() []domain.WishlistItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.WishlistItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Manager) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containsLocked(id)
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) containsLocked(id string) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) commit(ctx context.Context) error {
	m.mu.Lock()
	snap := m.snapshotLocked()
	views := make([]View, len(m.views))
	copy(views, m.views)
	m.mu.Unlock()

	if err := m.store.SetWishlist(ctx, snap.Items); err != nil {
		m.log.Error("persist wishlist", zap.Error(err))
		return fmt.Errorf("persist wishlist: %w", err)
	}
	for _, v := range views {
		v.RenderWishlist(snap)
	}
	m.bus.Publish(events.Event{
		Type:    events.WishlistChanged,
		Payload: events.WishlistPayload{ItemCount: snap.ItemCount},
	})
	return nil
}

func (m *Manager) snapshotLocked() Snapshot {
	items := make([]domain.WishlistItem, len(m.items))
	copy(items, m.items)
	return Snapshot{Items: items, ItemCount: len(m.items)}
}

func displayName(name string) string {
	if name == "" {
		return "Item"
	}
	return name
}
