package handlers

import (
	"net/http"
	"strings"
	"time"

	"voice-notes/internal/models"
)

// Dates arrive either as a plain calendar date or as RFC 3339.
func parseDueDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			d = d.UTC()
			return &d, true
		}
	}
	return nil, false
}

func invalidDueDate() error {
	v := models.NewValidator()
	v.Check(false, "dueDate", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	return v.Err()
}

type taskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *models.Priority `json:"priority"`
	DueDate     *string          `json:"dueDate"`
	Completed   *bool            `json:"completed"`
}

func (h *Handlers) GetTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.TaskFilter{
		Status:   models.TaskStatus(q.Get("status")),
		Priority: models.Priority(q.Get("priority")),
		Query:    q.Get("q"),
	}
	if f.Priority == "all" {
		f.Priority = ""
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	tasks, err := h.svc.ListTasks(ctx, currentUser(r).ID, f)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "count": len(tasks), "data": tasks}, http.StatusOK)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	task, err := h.svc.GetTask(ctx, currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": task}, http.StatusOK)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !h.decode(w, r, &req) {
		return
	}

	var in models.TaskInput
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, ok := parseDueDate(*req.DueDate)
		if !ok {
			h.writeErr(w, r, invalidDueDate())
			return
		}
		in.DueDate = d
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	task, err := h.svc.CreateTask(ctx, currentUser(r).ID, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": task}, http.StatusCreated)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			p.ClearDueDate = true
		} else {
			d, ok := parseDueDate(*req.DueDate)
			if !ok {
				h.writeErr(w, r, invalidDueDate())
				return
			}
			p.DueDate = d
		}
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	task, err := h.svc.UpdateTask(ctx, currentUser(r).ID, r.PathValue("id"), p)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": task}, http.StatusOK)
}

func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	task, err := h.svc.ToggleTask(ctx, currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": task}, http.StatusOK)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.svc.DeleteTask(ctx, currentUser(r).ID, r.PathValue("id")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.respond(w, envelope{"success": true, "data": struct{}{}}, http.StatusOK)
}
