package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

var ErrInvalidPreference = errors.New("invalid preference")

// Product is the catalog entry fed from the product markup's data
// attributes. The search manager never reads rendered markup back; the
// index is the source of truth.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortName      SortOrder = "name"
	SortRating    SortOrder = "rating"
)

// Filter narrows and orders the catalog. Zero values mean "no constraint".
type Filter struct {
	Query     string
	Category  string
	Brand     string
	MinRating float64
	MinPrice  float64
	MaxPrice  float64
	Sort      SortOrder
}

// ResultsView renders a search result set.
type ResultsView interface {
	RenderResults(products []Product)
}

const (
	minQueryLength = 2
	maxResults     = 50
)

// Manager owns the product index, the debounced live-search box and the
// persisted shop-view preferences.
type Manager struct {
	mu       sync.Mutex
	products []Product
	views    []ResultsView
	store    *store.Store
	debounce *ui.Debouncer
	log      *logger.Logger
}

func NewManager(st *store.Store, clk clock.Clock, window time.Duration, log *logger.Logger) *Manager {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		store:    st,
		debounce: ui.NewDebouncer(clk, window),
		log:      log,
	}
}

// SetProducts replaces the whole index, typically once per page load.
func (m *Manager) SetProducts(products []Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make([]Product, len(products))
	copy(m.products, products)
}

func (m *Manager) RegisterView(v ResultsView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, v)
}

// Input feeds a keystroke burst from the search box. Each call cancels the
// pending search and restarts the debounce window; only the last query in a
// burst actually runs. Queries shorter than two characters clear results.
func (m *Manager) Input(query string) {
	m.debounce.Trigger(func() {
		trimmed := strings.TrimSpace(query)
		var results []Product
		if len(trimmed) >= minQueryLength {
			results = m.Apply(Filter{Query: trimmed})
			if len(results) > maxResults {
				results = results[:maxResults]
			}
		}

		m.mu.Lock()
		views := make([]ResultsView, len(m.views))
		copy(views, m.views)
		m.mu.Unlock()

		for _, v := range views {
			v.RenderResults(results)
		}
	})
}

// Apply runs a filter over the index and returns the matches. Pure: no
// state changes, no rendering.
func (m *Manager) Apply(f Filter) []Product {
	m.mu.Lock()
	products := make([]Product, len(m.products))
	copy(products, m.products)
	m.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := products[:0]
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

// Page slices a result set according to the persisted items-per-page
// preference. Pages are 1-based; "all" returns everything.
func (m *Manager) Page(ctx context.Context, products []Product, page int) []Product {
	perPage := m.store.ItemsPerPage(ctx)
	if perPage == "all" {
		return products
	}
	n, err := strconv.Atoi(perPage)
	if err != nil || n <= 0 {
		n = 12
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * n
	if start >= len(products) {
		return []Product{}
	}
	end := start + n
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// === UI PREFERENCES ===

func (m *Manager) ShopView(ctx context.Context) string {
	return m.store.ShopView(ctx)
}

func (m *Manager) SetShopView(ctx context.Context, view string) error {
	if view != "grid" && view != "list" {
		return fmt.Errorf("%w: shop view %q", ErrInvalidPreference, view)
	}
	return m.store.SetShopView(ctx, view)
}

func (m *Manager) ItemsPerPage(ctx context.Context) string {
	return m.store.ItemsPerPage(ctx)
}

func (m *Manager) SetItemsPerPage(ctx context.Context, count string) error {
	if count != "all" {
		n, err := strconv.Atoi(count)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: items per page %q", ErrInvalidPreference, count)
		}
	}
	return m.store.SetItemsPerPage(ctx, count)
}

func matchesQuery(p Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Category), query) ||
		strings.Contains(strings.ToLower(p.Brand), query)
}

func sortProducts(products []Product, order SortOrder) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	}
}
