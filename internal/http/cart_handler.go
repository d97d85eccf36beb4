package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/cart"
	"github.com/marisimondelossantos-spec/petshop/internal/domain"
)

type CartHandler struct {
	sessions *app.Registry
}

func NewCartHandler(sessions *app.Registry) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponseDTO extends the cart snapshot with the priced totals the
// storefront renders in the cart drawer.
type CartResponseDTO struct {
	cart.Snapshot
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// cartResponse prices the snapshot with the configured tax rate and flat
// shipping fee. An empty cart prices to zero; shipping is never charged on
// nothing.
func cartResponse(a *app.App) CartResponseDTO {
	snap := a.Cart.Snapshot()
	resp := CartResponseDTO{Snapshot: snap, Currency: a.Config.Currency}
	if snap.ItemCount > 0 {
		resp.Tax = snap.Subtotal * a.Config.TaxRate
		resp.Shipping = a.Config.FlatShipping
		resp.Total = a.Cart.Total(a.Config.TaxRate, a.Config.FlatShipping)
	}
	return resp
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(a))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := a.Cart.AddItem(r.Context(), domain.CartItem{
		ID:       req.ProductID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(a))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	if err := a.Cart.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(a))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if err := a.Cart.RemoveItem(r.Context(), productID); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(a))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := a.Cart.Clear(r.Context()); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(a))
}

// resolveSession looks up the per-session app, rejecting requests that
// somehow bypassed the session middleware.
func resolveSession(w http.ResponseWriter, r *http.Request, sessions *app.Registry) (*app.App, bool) {
	sessionID := sessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return nil, false
	}
	a, err := sessions.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to open session")
		return nil, false
	}
	return a, true
}
