package resources

import (
	"context"
	"strings"

	"voice-notes/internal/models"
)

func (s *Service) ListNotes(ctx context.Context, userID string, f models.NoteFilter) ([]models.Note, error) {
	notes, err := s.store.ListNotes(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (s *Service) GetNote(ctx context.Context, userID, id string) (models.Note, error) {
	return Authorize(ctx, id, userID, s.lookupNote)
}

func (s *Service) lookupNote(ctx context.Context, id string) (models.Note, error) {
	if n, ok := s.notes.Get(noteKey(id)); ok {
		return n, nil
	}
	version := s.notes.Version()
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	s.notes.Fill(noteKey(id), n, version)
	return n, nil
}

func (s *Service) CreateNote(ctx context.Context, userID string, in models.NoteInput) (models.Note, error) {
	now := s.stamp()
	n := models.Note{
		ID:        s.newID(),
		Owner:     userID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n.Category == "" {
		n.Category = models.CategoryGeneral
	}
	if err := models.ValidateNote(n); err != nil {
		return models.Note{}, err
	}

	err := s.store.Atomic(ctx, func(tx Tx) error {
		return tx.InsertNote(ctx, n)
	})
	if err != nil {
		return models.Note{}, err
	}
	s.log.Debug("note created", "id", n.ID, "owner", userID)
	return n, nil
}

func (s *Service) UpdateNote(ctx context.Context, userID, id string, p models.NotePatch) (models.Note, error) {
	var updated models.Note
	err := s.store.Atomic(ctx, func(tx Tx) error {
		n, err := Authorize(ctx, id, userID, tx.GetNote)
		if err != nil {
			return err
		}
		if p.Title != nil {
			n.Title = strings.TrimSpace(*p.Title)
		}
		if p.Content != nil {
			n.Content = *p.Content
		}
		if p.Category != nil {
			n.Category = *p.Category
		}
		if err := models.ValidateNote(n); err != nil {
			return err
		}
		n.UpdatedAt = s.bump(n.UpdatedAt)
		if err := tx.SaveNote(ctx, n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	s.notes.Invalidate(noteKey(id))
	if err != nil {
		return models.Note{}, err
	}
	return updated, nil
}

func (s *Service) DeleteNote(ctx context.Context, userID, id string) error {
	err := s.store.Atomic(ctx, func(tx Tx) error {
		if _, err := Authorize(ctx, id, userID, tx.GetNote); err != nil {
			return err
		}
		return tx.DeleteNote(ctx, id)
	})
	s.notes.Invalidate(noteKey(id))
	if err != nil {
		return err
	}
	s.log.Debug("note deleted", "id", id, "owner", userID)
	return nil
}
