package handlers

import (
	"net/http"

	"voice-notes/internal/models"
)

func (h *Handlers) GetNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.NoteFilter{
		Category: models.Category(q.Get("category")),
		Query:    q.Get("q"),
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	notes, err := h.svc.ListNotes(ctx, currentUser(r).ID, f)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "count": len(notes), "data": notes}, http.StatusOK)
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	note, err := h.svc.GetNote(ctx, currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": note}, http.StatusOK)
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req models.NoteInput
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	note, err := h.svc.CreateNote(ctx, currentUser(r).ID, req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": note}, http.StatusCreated)
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req models.NotePatch
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	note, err := h.svc.UpdateNote(ctx, currentUser(r).ID, r.PathValue("id"), req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": note}, http.StatusOK)
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.svc.DeleteNote(ctx, currentUser(r).ID, r.PathValue("id")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": struct{}{}}, http.StatusOK)
}
