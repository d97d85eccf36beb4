package http

import (
	"encoding/json"
	"net/http"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/auth"
	"github.com/marisimondelossantos-spec/petshop/internal/domain"
)

type AuthHandler struct {
	sessions *app.Registry
}

func NewAuthHandler(sessions *app.Registry) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	LoggedIn bool         `json:"loggedIn"`
	User     *domain.User `json:"user,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var form auth.SignupForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := a.Auth.Signup(r.Context(), form)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := a.Auth.Logout(r.Context()); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if user, logged := a.Auth.CurrentUser(r.Context()); logged {
		respondJSON(w, http.StatusOK, SessionResponseDTO{LoggedIn: true, User: &user})
		return
	}
	respondJSON(w, http.StatusOK, SessionResponseDTO{LoggedIn: false})
}
