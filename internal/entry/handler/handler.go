// Package handler exposes gate entry tracking over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/entry"
	"gatepass/internal/platform/middleware"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

// GuardEventsProvider reports which events a security staffer may work.
type GuardEventsProvider interface {
	AllowedEvents(ctx context.Context, staffID string) ([]int64, error)
}

type Handler struct {
	service *entry.Service
	guards  GuardEventsProvider
	logger  *slog.Logger
}

func New(service *entry.Service, guards GuardEventsProvider, logger *slog.Logger) *Handler {
	return &Handler{service: service, guards: guards, logger: logger}
}

// RegisterProtected mounts the entry routes. All of them require staff auth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/arrival", h.arrival)
	r.Post("/departure", h.departure)
	r.Get("/today/{tourist_id}", h.today)
	r.Get("/history/{tourist_id}", h.history)
}

type gateRequest struct {
	QRCode    string `json:"qr_code"`
	TouristID string `json:"tourist_id"`
	EventID   int64  `json:"event_id"`
	EntryType string `json:"entry_type"`
}

// touristID resolves the target tourist, preferring a scanned QR payload.
func (req gateRequest) touristID() (string, error) {
	if req.QRCode != "" {
		return entry.ParseQR(req.QRCode)
	}
	if req.TouristID == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "Missing required fields")
	}
	return req.TouristID, nil
}

func (h *Handler) arrival(w http.ResponseWriter, r *http.Request) {
	var req gateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if !h.allowEvent(w, r, req.EventID) {
		return
	}
	touristID, err := req.touristID()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entryType := req.EntryType
	if entryType == "" {
		entryType = entry.TypeQR
	}
	record, err := h.service.Arrival(r.Context(), touristID, req.EventID, entryType, middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"record": record})
}

func (h *Handler) departure(w http.ResponseWriter, r *http.Request) {
	var req gateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if !h.allowEvent(w, r, req.EventID) {
		return
	}
	touristID, err := req.touristID()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	record, err := h.service.Departure(r.Context(), touristID, req.EventID, middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"record": record})
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.URL.Query().Get("event_id"), 10, 64)
	if err != nil || eventID <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid event id"))
		return
	}
	if !h.allowEvent(w, r, eventID) {
		return
	}
	record, err := h.service.Today(r.Context(), chi.URLParam(r, "tourist_id"), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"record": record})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r.Context())
	if role != "admin" && role != "security" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to view entries."))
		return
	}
	records, err := h.service.History(r.Context(), chi.URLParam(r, "tourist_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}

// allowEvent enforces the security allowlist. Admins may work any event.
func (h *Handler) allowEvent(w http.ResponseWriter, r *http.Request, eventID int64) bool {
	switch middleware.GetRole(r.Context()) {
	case "admin":
		return true
	case "security":
		allowed, err := h.guards.AllowedEvents(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			shared.WriteError(w, err)
			return false
		}
		if !slices.Contains(allowed, eventID) {
			shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to manage entries for this event."))
			return false
		}
		return true
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to manage entries for this event."))
		return false
	}
}
