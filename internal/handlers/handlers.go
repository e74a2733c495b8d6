package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"voice-notes/internal/auth"
	"voice-notes/internal/models"
	"voice-notes/internal/resources"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	svc     *resources.Service
	auth    *auth.Auth
	log     *slog.Logger
	timeout time.Duration
	version string
}

func New(svc *resources.Service, a *auth.Auth, log *slog.Logger, timeout time.Duration, version string) *Handlers {
	return &Handlers{
		svc:     svc,
		auth:    a,
		log:     log,
		timeout: timeout,
		version: version,
	}
}

type envelope map[string]any

func (h *Handlers) respond(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.log.Error("encode response", "error", err)
		}
	}
}

func (h *Handlers) error(w http.ResponseWriter, message string, status int) {
	h.respond(w, envelope{"success": false, "message": message}, status)
}

// writeErr maps protocol and credential errors to status codes. Anything
// unrecognised is logged and hidden behind a 500.
func (h *Handlers) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respond(w, envelope{"success": false, "message": verr.Error(), "errors": verr.Fields}, http.StatusBadRequest)
	case errors.Is(err, resources.ErrNotFound):
		h.error(w, "Resource not found", http.StatusNotFound)
	case errors.Is(err, resources.ErrNotAuthorized):
		h.error(w, "Not authorized to access this resource", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrEmailTaken):
		h.error(w, "User already exists", http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warn("request timed out", "method", r.Method, "path", r.URL.Path)
		h.error(w, "request timed out", http.StatusServiceUnavailable)
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handlers) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// currentUser is only called behind auth.Middleware.
func currentUser(r *http.Request) models.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, envelope{"status": "available", "version": h.version}, http.StatusOK)
}
