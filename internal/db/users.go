package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voice-notes/internal/models"
)

func (d *DB) CreateUser(ctx context.Context, u models.User) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (d *DB) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return d.getUser(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return d.getUser(ctx, `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (d *DB) getUser(ctx context.Context, query string, arg string) (models.User, error) {
	var u models.User
	err := d.conn.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
