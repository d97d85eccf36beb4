package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/domain"
)

type WishlistHandler struct {
	sessions *app.Registry
}

func NewWishlistHandler(sessions *app.Registry) *WishlistHandler {
	return &WishlistHandler{sessions: sessions}
}

type WishlistItemRequestDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type ToggleResponseDTO struct {
	Added bool `json:"added"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, a.Wishlist.Snapshot())
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	req, ok := decodeWishlistItem(w, r)
	if !ok {
		return
	}
	err := a.Wishlist.AddItem(r.Context(), domain.WishlistItem{
		ID:    req.ProductID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, a.Wishlist.Snapshot())
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	req, ok := decodeWishlistItem(w, r)
	if !ok {
		return
	}
	added, err := a.Wishlist.Toggle(r.Context(), domain.WishlistItem{
		ID:    req.ProductID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ToggleResponseDTO{Added: added})
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if err := a.Wishlist.RemoveItem(r.Context(), productID); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a.Wishlist.Snapshot())
}

func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if err := a.Wishlist.MoveToCart(r.Context(), productID, a.Cart); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"wishlist": a.Wishlist.Snapshot(),
		"cart":     a.Cart.Snapshot(),
	})
}

func decodeWishlistItem(w http.ResponseWriter, r *http.Request) (WishlistItemRequestDTO, bool) {
	var req WishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, false
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return req, false
	}
	return req, true
}
