package resources

import (
	"context"
	"strings"

	"voice-notes/internal/models"
)

func (s *Service) ListTasks(ctx context.Context, userID string, f models.TaskFilter) ([]models.Task, error) {
	if f.Status == "" {
		f.Status = models.StatusAll
	}
	v := models.NewValidator()
	v.Check(f.Status == models.StatusAll || f.Status == models.StatusCompleted || f.Status == models.StatusPending,
		"status", "must be one of all, completed, pending")
	v.Check(f.Priority == "" || f.Priority.Valid(), "priority", "must be one of low, medium, high")
	if err := v.Err(); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *Service) GetTask(ctx context.Context, userID, id string) (models.Task, error) {
	return Authorize(ctx, id, userID, s.lookupTask)
}

func (s *Service) lookupTask(ctx context.Context, id string) (models.Task, error) {
	if t, ok := s.tasks.Get(taskKey(id)); ok {
		return t, nil
	}
	version := s.tasks.Version()
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	s.tasks.Fill(taskKey(id), t, version)
	return t, nil
}

func (s *Service) CreateTask(ctx context.Context, userID string, in models.TaskInput) (models.Task, error) {
	now := s.stamp()
	t := models.Task{
		ID:          s.newID(),
		Owner:       userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if err := models.ValidateTask(t); err != nil {
		return models.Task{}, err
	}

	err := s.store.Atomic(ctx, func(tx Tx) error {
		return tx.InsertTask(ctx, t)
	})
	if err != nil {
		return models.Task{}, err
	}
	s.log.Debug("task created", "id", t.ID, "owner", userID)
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, userID, id string, p models.TaskPatch) (models.Task, error) {
	return s.mutateTask(ctx, userID, id, func(t *models.Task) error {
		if p.Title != nil {
			t.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		switch {
		case p.ClearDueDate:
			t.DueDate = nil
		case p.DueDate != nil:
			d := *p.DueDate
			t.DueDate = &d
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		return models.ValidateTask(*t)
	})
}

// ToggleTask flips the completion flag. Two toggles restore the original
// state; each call is still a separate modification.
func (s *Service) ToggleTask(ctx context.Context, userID, id string) (models.Task, error) {
	return s.mutateTask(ctx, userID, id, func(t *models.Task) error {
		t.Completed = !t.Completed
		return nil
	})
}

func (s *Service) mutateTask(ctx context.Context, userID, id string, apply func(*models.Task) error) (models.Task, error) {
	var updated models.Task
	err := s.store.Atomic(ctx, func(tx Tx) error {
		t, err := Authorize(ctx, id, userID, tx.GetTask)
		if err != nil {
			return err
		}
		if err := apply(&t); err != nil {
			return err
		}
		t.UpdatedAt = s.bump(t.UpdatedAt)
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	s.tasks.Invalidate(taskKey(id))
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	err := s.store.Atomic(ctx, func(tx Tx) error {
		if _, err := Authorize(ctx, id, userID, tx.GetTask); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, id)
	})
	s.tasks.Invalidate(taskKey(id))
	if err != nil {
		return err
	}
	s.log.Debug("task deleted", "id", id, "owner", userID)
	return nil
}
