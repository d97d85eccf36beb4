package http

import (
	"encoding/json"
	"net/http"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/checkout"
	"github.com/marisimondelossantos-spec/petshop/internal/domain"
)

type OrdersHandler struct {
	sessions *app.Registry
}

func NewOrdersHandler(sessions *app.Registry) *OrdersHandler {
	return &OrdersHandler{sessions: sessions}
}

type CheckoutRequestDTO struct {
	PaymentMethod string                  `json:"paymentMethod"`
	Details       checkout.PaymentDetails `json:"details"`
}

func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "paymentMethod must be cash, gcash or card")
		return
	}

	order, err := a.Checkout.PlaceOrder(r.Context(), method, req.Details)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, a.Checkout.Orders(r.Context()))
}
