package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/modal"
)

// UIHandler exposes the interaction surface: data-action commands, modal
// stack control and the mobile menu.
type UIHandler struct {
	sessions *app.Registry
}

func NewUIHandler(sessions *app.Registry) *UIHandler {
	return &UIHandler{sessions: sessions}
}

type ResizeRequestDTO struct {
	Width int `json:"width"`
}

type KeyRequestDTO struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

type ModalStateDTO struct {
	ActiveID    string   `json:"activeId"`
	ActiveStack []string `json:"activeStack"`
}

func (h *UIHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	action := chi.URLParam(r, "action")
	payload := map[string]string{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	if err := a.Commands.Dispatch(r.Context(), action, payload); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UIHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, a.Commands.Actions())
}

func (h *UIHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := a.Modals.Open(chi.URLParam(r, "modal_id")); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.modalState(a))
}

func (h *UIHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	a.Modals.Close(chi.URLParam(r, "modal_id"))
	respondJSON(w, http.StatusOK, h.modalState(a))
}

func (h *UIHandler) ModalKey(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req KeyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	handled := a.Modals.HandleKey(modal.Key{Name: req.Key, Shift: req.Shift})
	respondJSON(w, http.StatusOK, map[string]bool{"handled": handled})
}

func (h *UIHandler) GetModals(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.modalState(a))
}

func (h *UIHandler) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	a.Nav.Toggle()
	respondJSON(w, http.StatusOK, map[string]bool{"isOpen": a.Nav.IsOpen()})
}

func (h *UIHandler) Resize(w http.ResponseWriter, r *http.Request) {
	a, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req ResizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Width <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_width", "width must be positive")
		return
	}
	a.Nav.HandleResize(req.Width)
	respondJSON(w, http.StatusOK, map[string]bool{"isOpen": a.Nav.IsOpen()})
}

func (h *UIHandler) modalState(a *app.App) ModalStateDTO {
	stack := a.Modals.ActiveStack()
	if stack == nil {
		stack = []string{}
	}
	state := ModalStateDTO{ActiveStack: stack}
	if len(stack) > 0 {
		state.ActiveID = stack[len(stack)-1]
	}
	return state
}
