package store

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is the raw persistence boundary. Implementations hold opaque bytes and
// apply no business rules; all typed access goes through Store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Namespaced wraps a KV so every key is transparently prefixed. Session
// isolation over a shared backend is built from this.
type Namespaced struct {
	kv     KV
	prefix string
}

func NewNamespaced(kv KV, prefix string) *Namespaced {
	return &Namespaced{kv: kv, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.prefix+key)
}
