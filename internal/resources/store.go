package resources

import (
	"context"

	"voice-notes/internal/models"
)

// Store is the document store behind the protocol. Reads and writes that must
// be consistent with an ownership check run inside Atomic.
type Store interface {
	// Atomic runs fn in a single write transaction. If fn returns an error
	// nothing it staged is persisted.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	GetNote(ctx context.Context, id string) (models.Note, error)
	GetTask(ctx context.Context, id string) (models.Task, error)

	// ListNotes and ListTasks return only documents owned by owner, newest
	// created first.
	ListNotes(ctx context.Context, owner string, f models.NoteFilter) ([]models.Note, error)
	ListTasks(ctx context.Context, owner string, f models.TaskFilter) ([]models.Task, error)

	CountNotes(ctx context.Context, owner string) (int, error)
	CountTasks(ctx context.Context, owner string) (total, completed int, err error)
}

// Tx is the view of the store inside Atomic. Lookups return
// models.ErrNotFound for unknown ids.
type Tx interface {
	GetNote(ctx context.Context, id string) (models.Note, error)
	InsertNote(ctx context.Context, n models.Note) error
	SaveNote(ctx context.Context, n models.Note) error
	DeleteNote(ctx context.Context, id string) error

	GetTask(ctx context.Context, id string) (models.Task, error)
	InsertTask(ctx context.Context, t models.Task) error
	SaveTask(ctx context.Context, t models.Task) error
	DeleteTask(ctx context.Context, id string) error
}
