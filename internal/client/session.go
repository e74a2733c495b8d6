package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"voice-notes/internal/models"
)

// Session is an authenticated view of the API.
type Session struct {
	client *Client
	token  string
	user   models.User
}

func (s *Session) Token() string { return s.token }

// User is the account the session was created for. It is empty for
// sessions made with SessionFromToken until Me is called.
func (s *Session) User() models.User { return s.user }

func (s *Session) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return s.client.do(ctx, method, path, s.token, query, body, out)
}

func (s *Session) Me(ctx context.Context) (models.User, error) {
	var u models.User
	if err := s.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &u); err != nil {
		return models.User{}, err
	}
	s.user = u
	return u, nil
}

func (s *Session) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.do(ctx, http.MethodGet, "/api/stats", nil, nil, &st)
	return st, err
}

func (s *Session) Notes(ctx context.Context, f models.NoteFilter) ([]models.Note, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	var notes []models.Note
	err := s.do(ctx, http.MethodGet, "/api/notes", q, nil, &notes)
	return notes, err
}

func (s *Session) Note(ctx context.Context, id string) (models.Note, error) {
	var n models.Note
	err := s.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil, nil, &n)
	return n, err
}

func (s *Session) CreateNote(ctx context.Context, in models.NoteInput) (models.Note, error) {
	var n models.Note
	err := s.do(ctx, http.MethodPost, "/api/notes", nil, in, &n)
	return n, err
}

func (s *Session) UpdateNote(ctx context.Context, id string, p models.NotePatch) (models.Note, error) {
	var n models.Note
	err := s.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), nil, p, &n)
	return n, err
}

func (s *Session) DeleteNote(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil, nil)
}

func (s *Session) Tasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	var tasks []models.Task
	err := s.do(ctx, http.MethodGet, "/api/tasks", q, nil, &tasks)
	return tasks, err
}

func (s *Session) Task(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &t)
	return t, err
}

func (s *Session) CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error) {
	var t models.Task
	err := s.do(ctx, http.MethodPost, "/api/tasks", nil, in, &t)
	return t, err
}

// UpdateTask sends only the fields set in p. ClearDueDate is sent as an
// empty due date.
func (s *Session) UpdateTask(ctx context.Context, id string, p models.TaskPatch) (models.Task, error) {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	switch {
	case p.ClearDueDate:
		body["dueDate"] = ""
	case p.DueDate != nil:
		body["dueDate"] = p.DueDate.UTC().Format(time.RFC3339)
	}

	var t models.Task
	err := s.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, body, &t)
	return t, err
}

func (s *Session) ToggleTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, nil, &t)
	return t, err
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}
