package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marisimondelossantos-spec/petshop/internal/auth"
	"github.com/marisimondelossantos-spec/petshop/internal/cart"
	"github.com/marisimondelossantos-spec/petshop/internal/checkout"
	"github.com/marisimondelossantos-spec/petshop/internal/modal"
	"github.com/marisimondelossantos-spec/petshop/internal/search"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/internal/wishlist"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already on the wire; an encode failure here is unrecoverable.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps manager sentinel errors onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, wishlist.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
	case errors.Is(err, auth.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, checkout.ErrInvalidPayment):
		respondError(w, http.StatusBadRequest, "invalid_payment", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, modal.ErrNotRegistered):
		respondError(w, http.StatusNotFound, "modal_not_found", err.Error())
	case errors.Is(err, search.ErrInvalidPreference):
		respondError(w, http.StatusBadRequest, "invalid_preference", err.Error())
	case errors.Is(err, ui.ErrUnknownCommand):
		respondError(w, http.StatusNotFound, "unknown_command", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
