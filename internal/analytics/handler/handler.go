// Package handler exposes the analytics rollups over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/analytics"
	"gatepass/internal/platform/middleware"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

type Handler struct {
	service *analytics.Service
	logger  *slog.Logger
}

func New(service *analytics.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtected mounts the analytics routes.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/event/{event_id}/today", h.today)
	r.Get("/event/{event_id}/last-hour", h.lastHour)
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Today(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *Handler) lastHour(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	counts, err := h.service.LastHour(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"entries_by_type": counts})
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	role := middleware.GetRole(r.Context())
	if role != "admin" && role != "security" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to view analytics."))
		return 0, false
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "event_id"), 10, 64)
	if err != nil || eventID <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid event id"))
		return 0, false
	}
	return eventID, true
}
