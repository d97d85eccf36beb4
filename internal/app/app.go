package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/benbjohnson/clock"

	"github.com/marisimondelossantos-spec/petshop/internal/auth"
	"github.com/marisimondelossantos-spec/petshop/internal/cart"
	"github.com/marisimondelossantos-spec/petshop/internal/checkout"
	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/modal"
	"github.com/marisimondelossantos-spec/petshop/internal/nav"
	"github.com/marisimondelossantos-spec/petshop/internal/search"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/internal/wishlist"
	"github.com/marisimondelossantos-spec/petshop/pkg/config"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

// App is one storefront session wired end to end: storage, managers, event
// bus and the command registry the transport layer dispatches into.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Bus      *events.Bus
	Toasts   *ui.ToastCenter
	Commands *ui.CommandRegistry
	Cart     *cart.Manager
	Wishlist *wishlist.Manager
	Modals   *modal.Manager
	Auth     *auth.Manager
	Nav      *nav.Manager
	Search   *search.Manager
	Checkout *checkout.Manager

	log *logger.Logger
}

type Deps struct {
	Config    *config.Config
	KV        store.KV
	Clock     clock.Clock
	Logger    *logger.Logger
	ToastSink ui.ToastSink
	Forward   func(events.Event) // optional bridge, e.g. Kafka
}

// New builds the full manager graph for one keyspace. Callers that serve
// many sessions hand each one a Namespaced KV.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.KV == nil {
		deps.KV = store.NewMemoryKV()
	}

	st := store.New(deps.KV, deps.Logger)
	if err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	bus := events.NewBus(deps.Logger)
	if deps.Forward != nil {
		bus.SubscribeAll(deps.Forward)
	}

	toasts := ui.NewToastCenter(deps.ToastSink, deps.Clock)

	a := &App{
		Config:   cfg,
		Store:    st,
		Bus:      bus,
		Toasts:   toasts,
		Commands: ui.NewCommandRegistry(),
		log:      deps.Logger,
	}

	a.Cart = cart.NewManager(st, bus, toasts, deps.Clock, deps.Logger)
	a.Wishlist = wishlist.NewManager(st, bus, toasts, deps.Clock, deps.Logger)
	a.Modals = modal.NewManager(modal.Deps{
		Scroll: &ui.CountingScrollLock{},
		Clock:  deps.Clock,
		Bus:    bus,
		Logger: deps.Logger,
	})
	a.Auth = auth.NewManager(auth.Deps{
		Store:    st,
		Notifier: toasts,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	})
	a.Nav = nav.NewManager(nav.Options{
		Bus:            bus,
		Breakpoint:     cfg.NavBreakpoint,
		ResizeDebounce: cfg.ResizeDebounce,
		Clock:          deps.Clock,
		Logger:         deps.Logger,
	})
	a.Search = search.NewManager(st, deps.Clock, cfg.SearchDebounce, deps.Logger)
	a.Checkout = checkout.NewManager(checkout.Deps{
		Store:    st,
		Cart:     a.Cart,
		Users:    a.Auth,
		Bus:      bus,
		Notifier: toasts,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	})

	a.Auth.CheckSession(ctx)

	if err := a.registerCommands(); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	return a, nil
}

// registerCommands maps the storefront's click actions onto manager calls.
func (a *App) registerCommands() error {
	cmds := map[string]ui.CommandHandler{
		"add-to-cart": func(ctx context.Context, p map[string]string) error {
			item, err := cartItemFromPayload(p)
			if err != nil {
				return err
			}
			return a.Cart.AddItem(ctx, item)
		},
		"remove-from-cart": func(ctx context.Context, p map[string]string) error {
			return a.Cart.RemoveItem(ctx, p["product-id"])
		},
		"update-quantity": func(ctx context.Context, p map[string]string) error {
			qty, err := strconv.Atoi(p["quantity"])
			if err != nil {
				return fmt.Errorf("%w: quantity %q", cart.ErrInvalidProduct, p["quantity"])
			}
			return a.Cart.SetQuantity(ctx, p["product-id"], qty)
		},
		"increase-quantity": func(ctx context.Context, p map[string]string) error {
			return a.Cart.Increment(ctx, p["product-id"])
		},
		"decrease-quantity": func(ctx context.Context, p map[string]string) error {
			return a.Cart.Decrement(ctx, p["product-id"])
		},
		"clear-cart": func(ctx context.Context, _ map[string]string) error {
			return a.Cart.Clear(ctx)
		},
		"toggle-wishlist": func(ctx context.Context, p map[string]string) error {
			item, err := wishlistItemFromPayload(p)
			if err != nil {
				return err
			}
			_, err = a.Wishlist.Toggle(ctx, item)
			return err
		},
		"remove-from-wishlist": func(ctx context.Context, p map[string]string) error {
			return a.Wishlist.RemoveItem(ctx, p["product-id"])
		},
		"move-to-cart": func(ctx context.Context, p map[string]string) error {
			return a.Wishlist.MoveToCart(ctx, p["product-id"], a.Cart)
		},
		"open-modal": func(_ context.Context, p map[string]string) error {
			return a.Modals.Open(p["modal-id"])
		},
		"close-modal": func(_ context.Context, p map[string]string) error {
			a.Modals.Close(p["modal-id"])
			return nil
		},
		"toggle-mobile-menu": func(_ context.Context, _ map[string]string) error {
			a.Nav.Toggle()
			return nil
		},
		"logout": func(ctx context.Context, _ map[string]string) error {
			return a.Auth.Logout(ctx)
		},
	}
	for name, h := range cmds {
		if err := a.Commands.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

func cartItemFromPayload(p map[string]string) (domain.CartItem, error) {
	price, err := strconv.ParseFloat(p["price"], 64)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("%w: price %q", cart.ErrInvalidProduct, p["price"])
	}
	qty := 1
	if raw, ok := p["quantity"]; ok && raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("%w: quantity %q", cart.ErrInvalidProduct, raw)
		}
	}
	return domain.CartItem{
		ID:       p["product-id"],
		Name:     p["product-name"],
		Price:    price,
		Image:    p["image"],
		Quantity: qty,
	}, nil
}

func wishlistItemFromPayload(p map[string]string) (domain.WishlistItem, error) {
	price, err := strconv.ParseFloat(p["price"], 64)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("%w: price %q", cart.ErrInvalidProduct, p["price"])
	}
	return domain.WishlistItem{
		ID:    p["product-id"],
		Name:  p["product-name"],
		Price: price,
		Image: p["image"],
	}, nil
}
