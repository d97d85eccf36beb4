package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
)

func TestStore_CartRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	items := []domain.CartItem{
		{ID: "p1", Name: "Dog Food", Price: 499.75, Quantity: 2},
		{ID: "p2", Name: "Cat Toy", Price: 150, Quantity: 1},
	}
	require.NoError(t, st.SetCart(ctx, items))

	got := st.Cart(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, 499.75, got[0].Price)
	assert.Equal(t, 1, got[1].Quantity)
}

func TestStore_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	assert.Empty(t, st.Cart(ctx))
	assert.Empty(t, st.Wishlist(ctx))
	assert.Empty(t, st.Orders(ctx))
	assert.Empty(t, st.Users(ctx))
	assert.False(t, st.LoggedIn(ctx))
	assert.Equal(t, DefaultShopView, st.ShopView(ctx))
	assert.Equal(t, DefaultItemsPerPage, st.ItemsPerPage(ctx))
}

func TestStore_CorruptJSONRecoversToDefault(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, keyCart, []byte("{not json")))
	require.NoError(t, kv.Set(ctx, keyCurrentUser, []byte("][")))

	st := New(kv, nil)

	assert.Empty(t, st.Cart(ctx))
	_, ok := st.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestStore_LoggedInFlag(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	require.NoError(t, st.SetLoggedIn(ctx, true))
	assert.True(t, st.LoggedIn(ctx))

	require.NoError(t, st.SetLoggedIn(ctx, false))
	assert.False(t, st.LoggedIn(ctx))
}

func TestStore_CurrentUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	u := domain.User{
		Email:     "jane.doe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Address:   domain.Address{City: "Quezon City", ZipCode: "1100"},
	}
	require.NoError(t, st.SetCurrentUser(ctx, u))

	got, ok := st.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Equal(t, "1100", got.Address.ZipCode)

	require.NoError(t, st.RemoveCurrentUser(ctx))
	_, ok = st.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestStore_MigrateCopiesLegacyKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "cart", []byte(`[{"id":"p1","name":"Dog Food","price":100,"quantity":1}]`)))
	require.NoError(t, kv.Set(ctx, "shop-view", []byte("list")))

	st := New(kv, nil)
	require.NoError(t, st.Migrate(ctx))

	got := st.Cart(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "list", st.ShopView(ctx))
}

func TestStore_MigrateNeverOverwritesPrefixed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "cart", []byte(`[{"id":"stale","name":"Old","price":1,"quantity":1}]`)))
	require.NoError(t, kv.Set(ctx, keyCart, []byte(`[{"id":"fresh","name":"New","price":2,"quantity":1}]`)))

	st := New(kv, nil)
	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Migrate(ctx)) // idempotent

	got := st.Cart(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestStore_OrdersRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	orders := []domain.Order{
		{ID: "ORD-2", Status: domain.OrderStatusProcessing, Total: 500},
		{ID: "ORD-1", Status: domain.OrderStatusDelivered, Total: 250},
	}
	require.NoError(t, st.SetOrders(ctx, orders))

	got := st.Orders(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "ORD-2", got[0].ID)
	assert.Equal(t, domain.OrderStatusDelivered, got[1].Status)
}

func TestStore_Preferences(t *testing.T) {
	ctx := context.Background()
	st := New(NewMemoryKV(), nil)

	require.NoError(t, st.SetShopView(ctx, "list"))
	assert.Equal(t, "list", st.ShopView(ctx))

	require.NoError(t, st.SetItemsPerPage(ctx, "all"))
	assert.Equal(t, "all", st.ItemsPerPage(ctx))
}
