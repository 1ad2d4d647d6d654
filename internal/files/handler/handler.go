// Package handler mints and serves HMAC-signed public file links.
package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/files"
	"gatepass/internal/filetoken"
	"gatepass/internal/platform/middleware"
	"gatepass/internal/transport/http/shared"
	dErrors "gatepass/pkg/domainerrors"
)

const defaultLinkTTL = time.Hour

type Handler struct {
	signer    *files.LinkSigner
	staticDir string
	logger    *slog.Logger
}

func New(signer *files.LinkSigner, staticDir string, logger *slog.Logger) *Handler {
	return &Handler{signer: signer, staticDir: staticDir, logger: logger}
}

// RegisterProtected mounts the staff-facing link minting endpoint.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/link", h.link)
}

// link mints a signed public URL for a file under the static tree so admins
// can hand out downloads without sharing credentials.
func (h *Handler) link(w http.ResponseWriter, r *http.Request) {
	if middleware.GetRole(r.Context()) != "admin" {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "You do not have permission to share files."))
		return
	}

	relPath := r.URL.Query().Get("file")
	if relPath == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Missing required fields"))
		return
	}
	if err := filetoken.ValidatePath(filepath.Join(h.staticDir, relPath), h.staticDir); err != nil {
		shared.WriteError(w, err)
		return
	}

	ttl := defaultLinkTTL
	if raw := r.URL.Query().Get("expires_in"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"url": h.signer.SignedURL(relPath, ttl)})
}

// Access serves GET /static/access?file=&expires=&sig=.
func (h *Handler) Access(w http.ResponseWriter, r *http.Request) {
	relPath := r.URL.Query().Get("file")
	sig := r.URL.Query().Get("sig")
	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if relPath == "" || sig == "" || err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Missing required fields"))
		return
	}

	if err := h.signer.Verify(relPath, expires, sig); err != nil {
		h.logger.WarnContext(r.Context(), "rejected signed link",
			"request_id", middleware.GetRequestID(r.Context()),
			"file", relPath,
		)
		shared.WriteError(w, err)
		return
	}
	if err := filetoken.ValidatePath(filepath.Join(h.staticDir, relPath), h.staticDir); err != nil {
		shared.WriteError(w, err)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.staticDir, relPath))
}
