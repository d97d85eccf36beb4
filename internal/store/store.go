package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

// Prefix namespaces every storefront key so the backing KV can be shared
// with other consumers without collisions.
const Prefix = "petshop_"

const (
	keyLoggedIn     = Prefix + "is_logged_in"
	keyCurrentUser  = Prefix + "current_user"
	keyUsers        = Prefix + "users"
	keyCart         = Prefix + "cart"
	keyWishlist     = Prefix + "wishlist"
	keyOrders       = Prefix + "orders"
	keyShopView     = Prefix + "shop_view"
	keyItemsPerPage = Prefix + "items_per_page"
)

const (
	DefaultShopView     = "grid"
	DefaultItemsPerPage = "12"
)

// Store is the typed accessor layer over a raw KV. It serializes and
// deserializes collections and nothing more: no merging, no totals, no
// business rules. Malformed persisted JSON is recovered locally by
// substituting the collection's empty default; it is logged and never
// surfaced to callers as an error.
type Store struct {
	kv  KV
	log *logger.Logger
}

func New(kv KV, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Migrate copies legacy unprefixed keys into their namespaced homes, only
// when the namespaced key is absent. Running it again once both keys are
// reconciled never overwrites newer prefixed data with stale legacy data.
func (s *Store) Migrate(ctx context.Context) error {
	legacy := map[string]string{
		"cart":           keyCart,
		"wishlist":       keyWishlist,
		"shop-view":      keyShopView,
		"items-per-page": keyItemsPerPage,
	}

	for old, target := range legacy {
		raw, err := s.kv.Get(ctx, old)
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("migration read %q: %w", old, err)
		}
		if _, err := s.kv.Get(ctx, target); err == nil {
			continue // already reconciled
		} else if !errors.Is(err, ErrKeyNotFound) {
			return fmt.Errorf("migration read %q: %w", target, err)
		}
		if err := s.kv.Set(ctx, target, raw); err != nil {
			return fmt.Errorf("migration write %q: %w", target, err)
		}
		s.log.Info("migrated legacy storage key", zap.String("from", old), zap.String("to", target))
	}
	return nil
}

// === AUTHENTICATION ===

func (s *Store) LoggedIn(ctx context.Context) bool {
	raw, err := s.kv.Get(ctx, keyLoggedIn)
	if err != nil {
		return false
	}
	return string(raw) == "true"
}

func (s *Store) SetLoggedIn(ctx context.Context, v bool) error {
	val := "false"
	if v {
		val = "true"
	}
	return s.kv.Set(ctx, keyLoggedIn, []byte(val))
}

func (s *Store) CurrentUser(ctx context.Context) (domain.User, bool) {
	raw, err := s.kv.Get(ctx, keyCurrentUser)
	if err != nil {
		return domain.User{}, false
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logCorrupt(keyCurrentUser, err)
		return domain.User{}, false
	}
	return u, true
}

func (s *Store) SetCurrentUser(ctx context.Context, u domain.User) error {
	return setJSON(ctx, s, keyCurrentUser, u)
}

func (s *Store) RemoveCurrentUser(ctx context.Context) error {
	return s.kv.Delete(ctx, keyCurrentUser)
}

func (s *Store) Users(ctx context.Context) []domain.User {
	return getCollection[domain.User](ctx, s, keyUsers)
}

func (s *Store) SetUsers(ctx context.Context, users []domain.User) error {
	return setJSON(ctx, s, keyUsers, users)
}

// === SHOPPING ===

func (s *Store) Cart(ctx context.Context) []domain.CartItem {
	return getCollection[domain.CartItem](ctx, s, keyCart)
}

func (s *Store) SetCart(ctx context.Context, items []domain.CartItem) error {
	return setJSON(ctx, s, keyCart, emptyNotNil(items))
}

func (s *Store) Wishlist(ctx context.Context) []domain.WishlistItem {
	return getCollection[domain.WishlistItem](ctx, s, keyWishlist)
}

func (s *Store) SetWishlist(ctx context.Context, items []domain.WishlistItem) error {
	return setJSON(ctx, s, keyWishlist, emptyNotNil(items))
}

func (s *Store) Orders(ctx context.Context) []domain.Order {
	return getCollection[domain.Order](ctx, s, keyOrders)
}

func (s *Store) SetOrders(ctx context.Context, orders []domain.Order) error {
	return setJSON(ctx, s, keyOrders, emptyNotNil(orders))
}

// === UI PREFERENCES ===

func (s *Store) ShopView(ctx context.Context) string {
	raw, err := s.kv.Get(ctx, keyShopView)
	if err != nil || len(raw) == 0 {
		return DefaultShopView
	}
	return string(raw)
}

func (s *Store) SetShopView(ctx context.Context, view string) error {
	return s.kv.Set(ctx, keyShopView, []byte(view))
}

func (s *Store) ItemsPerPage(ctx context.Context) string {
	raw, err := s.kv.Get(ctx, keyItemsPerPage)
	if err != nil || len(raw) == 0 {
		return DefaultItemsPerPage
	}
	return string(raw)
}

func (s *Store) SetItemsPerPage(ctx context.Context, count string) error {
	return s.kv.Set(ctx, keyItemsPerPage, []byte(count))
}

func (s *Store) logCorrupt(key string, err error) {
	s.log.Warn("corrupt persisted state, substituting default",
		zap.String("key", key), zap.Error(err))
}

func getCollection[T any](ctx context.Context, s *Store, key string) []T {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}
	}
	if err != nil {
		s.log.Warn("persisted state read failed, substituting default",
			zap.String("key", key), zap.Error(err))
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logCorrupt(key, err)
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func setJSON(ctx context.Context, s *Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}

func emptyNotNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
