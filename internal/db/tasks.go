package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voice-notes/internal/models"
)

const taskColumns = `id, user_id, title, description, priority, due_date, completed, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var (
		t   models.Task
		due sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Owner, &t.Title, &t.Description, &t.Priority, &due, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func getTask(ctx context.Context, q querier, id string) (models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (d *DB) GetTask(ctx context.Context, id string) (models.Task, error) {
	return getTask(ctx, d.conn, id)
}

func (d *DB) ListTasks(ctx context.Context, owner string, f models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{owner}
	switch f.Status {
	case models.StatusCompleted:
		query += ` AND completed = TRUE`
	case models.StatusPending:
		query += ` AND completed = FALSE`
	}
	if f.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, f.Priority)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		query += ` AND (lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')`
		args = append(args, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (d *DB) CountTasks(ctx context.Context, owner string) (total, completed int, err error) {
	err = d.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) FROM tasks WHERE user_id = ?`, owner).
		Scan(&total, &completed)
	return total, completed, err
}

func (t *Tx) GetTask(ctx context.Context, id string) (models.Task, error) {
	return getTask(ctx, t.q, id)
}

func (t *Tx) InsertTask(ctx context.Context, task models.Task) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Owner, task.Title, task.Description, task.Priority, nullTime(task.DueDate),
		task.Completed, task.CreatedAt.UTC(), task.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (t *Tx) SaveTask(ctx context.Context, task models.Task) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, priority = ?, due_date = ?, completed = ?, updated_at = ? WHERE id = ?`,
		task.Title, task.Description, task.Priority, nullTime(task.DueDate), task.Completed, task.UpdatedAt.UTC(), task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOne(res)
}

func (t *Tx) DeleteTask(ctx context.Context, id string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res)
}
