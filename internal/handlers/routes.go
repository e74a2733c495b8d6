package handlers

import (
	"context"
	"net/http"
)

type RouteOptions struct {
	CORSOrigins []string

	RateLimit bool
	RPS       float64
	Burst     int

	// IPHeader names the proxy header carrying the client address.
	IPHeader string
}

// Routes builds the API handler. ctx bounds background work such as the
// rate limiter sweep.
func (h *Handlers) Routes(ctx context.Context, opts RouteOptions) http.Handler {
	mux := http.NewServeMux()
	protect := h.auth.Middleware

	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/users/register", h.Register)
	mux.HandleFunc("POST /api/users/login", h.Login)
	mux.HandleFunc("GET /api/users/me", protect(h.Me))

	mux.HandleFunc("GET /api/notes", protect(h.GetNotes))
	mux.HandleFunc("POST /api/notes", protect(h.CreateNote))
	mux.HandleFunc("GET /api/notes/{id}", protect(h.GetNote))
	mux.HandleFunc("PUT /api/notes/{id}", protect(h.UpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", protect(h.DeleteNote))

	mux.HandleFunc("GET /api/tasks", protect(h.GetTasks))
	mux.HandleFunc("POST /api/tasks", protect(h.CreateTask))
	mux.HandleFunc("GET /api/tasks/{id}", protect(h.GetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", protect(h.UpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", protect(h.DeleteTask))
	mux.HandleFunc("PUT /api/tasks/{id}/toggle", protect(h.ToggleTask))

	mux.HandleFunc("GET /api/stats", protect(h.Stats))

	var handler http.Handler = mux
	if opts.RateLimit {
		handler = h.rateLimit(newRateLimiter(ctx, h.log, opts.RPS, opts.Burst), opts.IPHeader, handler)
	}
	if len(opts.CORSOrigins) > 0 {
		handler = enableCORS(opts.CORSOrigins, handler)
	}
	return logRequests(h.log, handler)
}
