package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
)

type cartStub struct {
	added []domain.CartItem
	err   error
}

func (c *cartStub) AddItem(_ context.Context, item domain.CartItem) error {
	if c.err != nil {
		return c.err
	}
	c.added = append(c.added, item)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil)
	return NewManager(st, events.NewBus(nil), nil, clock.NewMock(), nil), st
}

func catToy() domain.WishlistItem {
	return domain.WishlistItem{ID: "w1", Name: "Cat Toy", Price: 150}
}

func TestAddItem_DuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, catToy()))
	require.NoError(t, m.AddItem(ctx, catToy()))

	assert.Equal(t, 1, m.ItemCount())
	assert.Len(t, st.Wishlist(ctx), 1)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	added, err := m.Toggle(ctx, catToy())
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, m.Contains("w1"))

	added, err = m.Toggle(ctx, catToy())
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, m.Contains("w1"))
}

func TestRemoveItem_AbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.AddItem(ctx, catToy()))
	require.NoError(t, m.RemoveItem(ctx, "ghost"))
	assert.Equal(t, 1, m.ItemCount())
}

func TestMoveToCart_RemovesAfterCartAccepts(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)
	require.NoError(t, m.AddItem(ctx, catToy()))

	cart := &cartStub{}
	require.NoError(t, m.MoveToCart(ctx, "w1", cart))

	require.Len(t, cart.added, 1)
	assert.Equal(t, "w1", cart.added[0].ID)
	assert.Equal(t, 1, cart.added[0].Quantity)
	assert.False(t, m.Contains("w1"))
	assert.Empty(t, st.Wishlist(ctx))
}

func TestMoveToCart_CartRejectionKeepsItem(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)
	require.NoError(t, m.AddItem(ctx, catToy()))

	rejection := errors.New("cart full")
	err := m.MoveToCart(ctx, "w1", &cartStub{err: rejection})

	assert.ErrorIs(t, err, rejection)
	assert.True(t, m.Contains("w1"))
	assert.Len(t, st.Wishlist(ctx), 1)
}

func TestMoveToCart_AbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	cart := &cartStub{}
	require.NoError(t, m.MoveToCart(ctx, "ghost", cart))
	assert.Empty(t, cart.added)
}

func TestCommit_PublishesWishlistChanged(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), nil)
	bus := events.NewBus(nil)
	m := NewManager(st, bus, nil, clock.NewMock(), nil)

	var counts []int
	bus.Subscribe(events.WishlistChanged, func(e events.Event) {
		counts = append(counts, e.Payload.(events.WishlistPayload).ItemCount)
	})

	require.NoError(t, m.AddItem(ctx, catToy()))
	require.NoError(t, m.RemoveItem(ctx, "w1"))

	assert.Equal(t, []int{1, 0}, counts)
}

func TestNewManager_LoadsPersistedWishlist(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), nil)
	require.NoError(t, st.SetWishlist(ctx, []domain.WishlistItem{catToy()}))

	m := NewManager(st, events.NewBus(nil), nil, clock.NewMock(), nil)
	assert.True(t, m.Contains("w1"))
}
