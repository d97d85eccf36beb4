package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
)

type recordingView struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (v *recordingView) RenderCart(s Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snaps = append(v.snaps, s)
}

func (v *recordingView) last() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.snaps) == 0 {
		return Snapshot{}
	}
	return v.snaps[len(v.snaps)-1]
}

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil)
	return NewManager(st, events.NewBus(nil), nil, clock.NewMock(), nil), st
}

func dogFood(qty int) domain.CartItem {
	return domain.CartItem{ID: "p1", Name: "Dog Food", Price: 100, Quantity: qty}
}

func TestAddItem_MergesByID(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(1)))
	require.NoError(t, m.AddItem(ctx, dogFood(2)))

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, m.ItemCount())
}

func TestAddItem_QuantityFlooredAtOne(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(0)))
	assert.Equal(t, 1, m.QuantityOf("p1"))
}

func TestAddItem_InvalidProductLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(1)))

	err := m.AddItem(ctx, domain.CartItem{Name: "no id", Price: 10, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	err = m.AddItem(ctx, domain.CartItem{ID: "p2", Name: "Negative", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	assert.Equal(t, 1, m.ItemCount())
	assert.Len(t, st.Cart(ctx), 1)
}

func TestRemoveItem_AbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(1)))
	require.NoError(t, m.RemoveItem(ctx, "ghost"))
	assert.Equal(t, 1, m.ItemCount())
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(2)))
	require.NoError(t, m.SetQuantity(ctx, "p1", 0))

	assert.False(t, m.Contains("p1"))
	assert.Empty(t, m.Items())
}

func TestDecrement_AtOneRemoves(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(2)))
	require.NoError(t, m.Decrement(ctx, "p1"))
	assert.Equal(t, 1, m.QuantityOf("p1"))

	require.NoError(t, m.Decrement(ctx, "p1"))
	assert.False(t, m.Contains("p1"))
}

func TestIncrement(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(1)))
	require.NoError(t, m.Increment(ctx, "p1"))
	assert.Equal(t, 2, m.QuantityOf("p1"))
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, domain.CartItem{ID: "p1", Name: "Dog Food", Price: 100, Quantity: 2}))
	require.NoError(t, m.AddItem(ctx, domain.CartItem{ID: "p2", Name: "Cat Toy", Price: 50, Quantity: 1}))

	assert.Equal(t, 250.0, m.Subtotal())
	assert.InDelta(t, 280.0, m.Total(0.12, 0), 1e-9)
	assert.InDelta(t, 330.0, m.Total(0.12, 50), 1e-9)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, dogFood(3)))
	require.NoError(t, m.Clear(ctx))

	assert.Empty(t, m.Items())
	assert.Empty(t, st.Cart(ctx))

	// clearing an empty cart still succeeds
	require.NoError(t, m.Clear(ctx))
}

func TestCommit_PersistsRendersAndPublishes(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), nil)
	bus := events.NewBus(nil)
	m := NewManager(st, bus, nil, clock.NewMock(), nil)

	var published []events.CartPayload
	bus.Subscribe(events.CartChanged, func(e events.Event) {
		published = append(published, e.Payload.(events.CartPayload))
	})

	view := &recordingView{}
	m.RegisterView(view)

	require.NoError(t, m.AddItem(ctx, dogFood(2)))

	persisted := st.Cart(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Quantity)

	assert.Equal(t, 2, view.last().ItemCount)
	assert.Equal(t, 200.0, view.last().Subtotal)

	require.Len(t, published, 1)
	assert.Equal(t, 2, published[0].ItemCount)
	assert.Equal(t, 200.0, published[0].Subtotal)
}

func TestNewManager_LoadsPersistedCart(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), nil)
	require.NoError(t, st.SetCart(ctx, []domain.CartItem{dogFood(4)}))

	m := NewManager(st, events.NewBus(nil), nil, clock.NewMock(), nil)
	assert.Equal(t, 4, m.ItemCount())
	assert.True(t, m.Contains("p1"))
}
