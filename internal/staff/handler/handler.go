// Package handler exposes staff account management and login over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/platform/middleware"
	"gatepass/internal/staff"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

type Handler struct {
	service *staff.Service
	logger  *slog.Logger
}

func New(service *staff.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the login route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/login", h.login)
}

// RegisterProtected mounts the admin-only account management routes.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/register", h.register)
	r.Get("/", h.list)
	r.Patch("/{staff_id}/events", h.updateAllowedEvents)
	r.Delete("/{staff_id}", h.remove)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var input staff.LoginInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.WriteError(w, err)
		return
	}
	result, err := h.service.Login(r.Context(), input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "login failed",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var input staff.RegisterInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.WriteError(w, err)
		return
	}
	st, err := h.service.Register(r.Context(), input, middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"user": st})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.service.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) updateAllowedEvents(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var body struct {
		AllowedEvents []int64 `json:"allowed_events"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		shared.WriteError(w, err)
		return
	}
	st, err := h.service.UpdateAllowedEvents(r.Context(),
		chi.URLParam(r, "staff_id"), body.AllowedEvents, middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"user": st})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "staff_id"), middleware.GetUserID(r.Context())); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"message": "User deleted"})
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if middleware.GetRole(r.Context()) != staff.RoleAdmin {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to manage users."))
		return false
	}
	return true
}
