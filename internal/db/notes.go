package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voice-notes/internal/models"
)

const noteColumns = `id, user_id, title, content, category, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.Owner, &n.Title, &n.Content, &n.Category, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func getNote(ctx context.Context, q querier, id string) (models.Note, error) {
	n, err := scanNote(q.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, models.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (d *DB) GetNote(ctx context.Context, id string) (models.Note, error) {
	return getNote(ctx, d.conn, id)
}

func (d *DB) ListNotes(ctx context.Context, owner string, f models.NoteFilter) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ?`
	args := []any{owner}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		query += ` AND (lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\' OR lower(category) LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (d *DB) CountNotes(ctx context.Context, owner string) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE user_id = ?`, owner).Scan(&n)
	return n, err
}

func (t *Tx) GetNote(ctx context.Context, id string) (models.Note, error) {
	return getNote(ctx, t.q, id)
}

func (t *Tx) InsertNote(ctx context.Context, n models.Note) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Owner, n.Title, n.Content, n.Category, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// SaveNote overwrites the mutable columns. Owner and creation time are never
// written after insert.
func (t *Tx) SaveNote(ctx context.Context, n models.Note) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, category = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Content, n.Category, n.UpdatedAt.UTC(), n.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return expectOne(res)
}

func (t *Tx) DeleteNote(ctx context.Context, id string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
