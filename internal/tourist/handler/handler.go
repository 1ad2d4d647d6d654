// Package handler exposes tourist registration and card delivery over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/platform/middleware"
	"gatepass/internal/tourist"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	service *tourist.Service
	logger  *slog.Logger
}

func New(service *tourist.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts registration and the token-gated file routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/register", h.register)
	r.Get("/visitor-card/{token}", h.viewCard)
	r.Get("/download-visitor-card/{token}", h.downloadCard)
	r.Get("/user-image/{token}", h.userImage)
}

// RegisterProtected mounts the staff-facing listings.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/event/{event_id}", h.listByEvent)
	r.Get("/{tourist_id}", h.get)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Image file is required"))
		return
	}

	input := tourist.RegistrationInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		IDType:   r.FormValue("unique_id_type"),
		IDNumber: r.FormValue("unique_id"),
	}
	input.EventID, _ = strconv.ParseInt(r.FormValue("registered_event_id"), 10, 64)
	input.IsGroup = strings.EqualFold(r.FormValue("is_group"), "true")
	input.GroupCount = 1
	if raw := r.FormValue("group_count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			input.GroupCount = n
		}
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		input.Photo = file
		input.PhotoFilename = header.Filename
	}

	result, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "registration rejected",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) viewCard(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ResolveCard(chi.URLParam(r, "token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (h *Handler) downloadCard(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ResolveCard(chi.URLParam(r, "token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) userImage(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ResolveImage(chi.URLParam(r, "token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (h *Handler) listByEvent(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r.Context())
	if role != "admin" && role != "security" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to view tourists."))
		return
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "event_id"), 10, 64)
	if err != nil || eventID <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid event id"))
		return
	}
	tourists, err := h.service.ListByEvent(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"tourists": tourists})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r.Context())
	if role != "admin" && role != "security" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to view tourists."))
		return
	}
	t, err := h.service.GetByID(r.Context(), chi.URLParam(r, "tourist_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"tourist": t})
}
