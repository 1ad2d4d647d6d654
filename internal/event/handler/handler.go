// Package handler exposes event management and the public gate check over
// HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/event"
	"gatepass/internal/platform/middleware"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

// GuardEventsProvider reports which events a security staffer may work.
type GuardEventsProvider interface {
	AllowedEvents(ctx context.Context, staffID string) ([]int64, error)
}

type Handler struct {
	service *event.Service
	guards  GuardEventsProvider
	logger  *slog.Logger
}

func New(service *event.Service, guards GuardEventsProvider, logger *slog.Logger) *Handler {
	return &Handler{service: service, guards: guards, logger: logger}
}

// RegisterPublic mounts the unauthenticated gate check.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/check/{event_id}", h.check)
}

// RegisterProtected mounts the staff-facing management routes.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{event_id}", h.get)
	r.Patch("/{event_id}/status", h.setStatus)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.Check(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"event": e})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != "admin" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to manage events."))
		return
	}
	var input event.CreateInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "event create failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"event": e})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		events []event.Event
		err    error
	)
	switch middleware.GetRole(r.Context()) {
	case "admin":
		events, err = h.service.List(r.Context())
	case "security":
		var allowed []int64
		allowed, err = h.guards.AllowedEvents(r.Context(), middleware.GetUserID(r.Context()))
		if err == nil {
			events, err = h.service.ListForGuard(r.Context(), allowed)
		}
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to view events."))
		return
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"event": e})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != "admin" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to manage events."))
		return
	}
	id, err := eventID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := shared.DecodeJSON(r, &body); err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.SetActive(r.Context(), id, body.IsActive)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"event": e})
}

func eventID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "event_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "Invalid event id")
	}
	return id, nil
}
