package resources

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"voice-notes/internal/models"
)

// fakeStore keeps documents in maps. Atomic works on copies and swaps them in
// on success, so a failing fn leaves the store untouched.
type fakeStore struct {
	mu    sync.Mutex
	notes map[string]models.Note
	tasks map[string]models.Task
	gets  int

	// afterGet runs once a GetNote or GetTask has read the maps and released
	// the lock, before the result is returned.
	afterGet func(id string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notes: make(map[string]models.Note),
		tasks: make(map[string]models.Task),
	}
}

type fakeTx struct {
	notes map[string]models.Note
	tasks map[string]models.Task
}

func (s *fakeStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fakeTx{notes: maps.Clone(s.notes), tasks: maps.Clone(s.tasks)}
	if err := fn(tx); err != nil {
		return err
	}
	s.notes, s.tasks = tx.notes, tx.tasks
	return nil
}

func (s *fakeStore) GetNote(_ context.Context, id string) (models.Note, error) {
	s.mu.Lock()
	s.gets++
	n, ok := s.notes[id]
	hook := s.afterGet
	s.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if !ok {
		return models.Note{}, models.ErrNotFound
	}
	return n, nil
}

func (s *fakeStore) GetTask(_ context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	s.gets++
	t, ok := s.tasks[id]
	hook := s.afterGet
	s.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if !ok {
		return models.Task{}, models.ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) ListNotes(_ context.Context, owner string, f models.NoteFilter) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Note
	q := strings.ToLower(f.Query)
	for _, n := range s.notes {
		if n.Owner != owner {
			continue
		}
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(n.Title+" "+n.Content+" "+string(n.Category)), q) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) ListTasks(_ context.Context, owner string, f models.TaskFilter) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.Owner != owner {
			continue
		}
		if f.Status == models.StatusCompleted && !t.Completed || f.Status == models.StatusPending && t.Completed {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) CountNotes(_ context.Context, owner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, note := range s.notes {
		if note.Owner == owner {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountTasks(_ context.Context, owner string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, completed := 0, 0
	for _, t := range s.tasks {
		if t.Owner != owner {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	return total, completed, nil
}

func (tx *fakeTx) GetNote(_ context.Context, id string) (models.Note, error) {
	n, ok := tx.notes[id]
	if !ok {
		return models.Note{}, models.ErrNotFound
	}
	return n, nil
}

func (tx *fakeTx) InsertNote(_ context.Context, n models.Note) error {
	tx.notes[n.ID] = n
	return nil
}

func (tx *fakeTx) SaveNote(_ context.Context, n models.Note) error {
	if _, ok := tx.notes[n.ID]; !ok {
		return models.ErrNotFound
	}
	tx.notes[n.ID] = n
	return nil
}

func (tx *fakeTx) DeleteNote(_ context.Context, id string) error {
	delete(tx.notes, id)
	return nil
}

func (tx *fakeTx) GetTask(_ context.Context, id string) (models.Task, error) {
	t, ok := tx.tasks[id]
	if !ok {
		return models.Task{}, models.ErrNotFound
	}
	return t, nil
}

func (tx *fakeTx) InsertTask(_ context.Context, t models.Task) error {
	tx.tasks[t.ID] = t
	return nil
}

func (tx *fakeTx) SaveTask(_ context.Context, t models.Task) error {
	if _, ok := tx.tasks[t.ID]; !ok {
		return models.ErrNotFound
	}
	tx.tasks[t.ID] = t
	return nil
}

func (tx *fakeTx) DeleteTask(_ context.Context, id string) error {
	delete(tx.tasks, id)
	return nil
}
