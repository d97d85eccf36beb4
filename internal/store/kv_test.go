package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvContract runs the behavior every backend must share.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, kv.Set(ctx, "k", []byte("v2")))
	got, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// deleting an absent key is not an error
	require.NoError(t, kv.Delete(ctx, "k"))
}

func TestMemoryKV_Contract(t *testing.T) {
	kvContract(t, NewMemoryKV())
}

func TestFileKV_Contract(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	kvContract(t, kv)
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "petshop_cart", []byte(`[]`)))

	reopened, err := NewFileKV(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "petshop_cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestRedisKV_Contract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	kvContract(t, NewRedisKV(client))
}

func TestNamespaced_Isolation(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryKV()

	a := NewNamespaced(base, "sess:a:")
	b := NewNamespaced(base, "sess:b:")

	require.NoError(t, a.Set(ctx, "petshop_cart", []byte("a-cart")))
	require.NoError(t, b.Set(ctx, "petshop_cart", []byte("b-cart")))

	got, err := a.Get(ctx, "petshop_cart")
	require.NoError(t, err)
	assert.Equal(t, []byte("a-cart"), got)

	got, err = b.Get(ctx, "petshop_cart")
	require.NoError(t, err)
	assert.Equal(t, []byte("b-cart"), got)

	require.NoError(t, a.Delete(ctx, "petshop_cart"))
	_, err = a.Get(ctx, "petshop_cart")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = b.Get(ctx, "petshop_cart")
	assert.NoError(t, err)
}
