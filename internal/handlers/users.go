package handlers

import (
	"net/http"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	token, u, err := h.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "token": token, "user": u}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	token, u, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "token": token, "user": u}, http.StatusOK)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	h.respond(w, envelope{"success": true, "data": currentUser(r)}, http.StatusOK)
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	stats, err := h.svc.Stats(ctx, currentUser(r).ID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": stats}, http.StatusOK)
}
