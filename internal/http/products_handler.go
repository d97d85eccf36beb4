package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/search"
)

type ProductsHandler struct {
	sessions *app.Registry
}

func NewProductsHandler(sessions *app.Registry) *ProductsHandler {
	return &ProductsHandler{sessions: sessions}
}

type PreferencesDTO struct {
	ShopView     string `json:"shopView"`
	ItemsPerPage string `json:"itemsPerPage"`
}

// LoadProducts replaces the session's product index. The storefront pushes
// its catalog here once on boot.
func (h *ProductsHandler) LoadProducts(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var products []search.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	a.Search.SetProducts(products)
	respondJSON(w, http.StatusOK, map[string]int{"count": len(products)})
}

func (h *ProductsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := search.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Sort:     search.SortOrder(q.Get("sort")),
	}
	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_filter", "min_rating must be a number")
			return
		}
		f.MinRating = v
	}
	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_filter", "min_price must be a number")
			return
		}
		f.MinPrice = v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_filter", "max_price must be a number")
			return
		}
		f.MaxPrice = v
	}

	results := a.Search.Apply(f)

	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = v
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(results),
		"page":     page,
		"products": a.Search.Page(r.Context(), results, page),
	})
}

func (h *ProductsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, PreferencesDTO{
		ShopView:     a.Search.ShopView(r.Context()),
		ItemsPerPage: a.Search.ItemsPerPage(r.Context()),
	})
}

func (h *ProductsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req PreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ShopView != "" {
		if err := a.Search.SetShopView(r.Context(), req.ShopView); err != nil {
			handleDomainError(w, err)
			return
		}
	}
	if req.ItemsPerPage != "" {
		if err := a.Search.SetItemsPerPage(r.Context(), req.ItemsPerPage); err != nil {
			handleDomainError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, PreferencesDTO{
		ShopView:     a.Search.ShopView(r.Context()),
		ItemsPerPage: a.Search.ItemsPerPage(r.Context()),
	})
}
