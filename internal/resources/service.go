package resources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"voice-notes/internal/cache"
	"voice-notes/internal/models"
)

// Service applies the ownership guard and the mutation rules for notes and
// tasks on top of a Store.
type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
	newID func() string
	notes *cache.Cache[models.Note]
	tasks *cache.Cache[models.Task]
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.notes = cache.New[models.Note](size)
		s.tasks = cache.New[models.Task](size)
	}
}

func New(store Store, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
		notes: cache.New[models.Note](cache.MaxCacheSize),
		tasks: cache.New[models.Task](cache.MaxCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) stamp() time.Time {
	return s.now().UTC()
}

// bump returns a modification time strictly after prev.
func (s *Service) bump(prev time.Time) time.Time {
	next := s.stamp()
	if !next.After(prev) {
		next = prev.Add(time.Microsecond)
	}
	return next
}

func noteKey(id string) string { return "note:" + id }
func taskKey(id string) string { return "task:" + id }

func (s *Service) Stats(ctx context.Context, userID string) (models.Stats, error) {
	notes, err := s.store.CountNotes(ctx, userID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("count notes: %w", err)
	}
	total, completed, err := s.store.CountTasks(ctx, userID)
	if err != nil {
		return models.Stats{}, fmt.Errorf("count tasks: %w", err)
	}
	return models.Stats{
		TotalNotes:     notes,
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
	}, nil
}
