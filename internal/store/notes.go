package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// AddNote creates a note and refetches the notes collection.
func (s *Store) AddNote(ctx context.Context, input NoteInput) (*domain.Note, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.gw.Notes.Create(ctx, s.userID, &domain.Note{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
	})
	if err != nil {
		s.notify(ctx, "couldn't save note")
		return nil, fmt.Errorf("store.AddNote: %w", err)
	}

	if err := s.refetchNotes(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "note added", slog.String("note_id", created.ID.String()))
	return created, nil
}

// UpdateNote applies a partial update.
func (s *Store) UpdateNote(ctx context.Context, noteID uuid.UUID, upd domain.NoteUpdate) (*domain.Note, error) {
	updated, err := s.gw.Notes.Update(ctx, s.userID, noteID, upd)
	if err != nil {
		s.notify(ctx, "couldn't update note")
		return nil, fmt.Errorf("store.UpdateNote: %w", err)
	}

	if err := s.refetchNotes(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "note updated", slog.String("note_id", noteID.String()))
	return updated, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, noteID uuid.UUID) error {
	if err := s.gw.Notes.Delete(ctx, s.userID, noteID); err != nil {
		s.notify(ctx, "couldn't delete note")
		return fmt.Errorf("store.DeleteNote: %w", err)
	}

	if err := s.refetchNotes(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "note deleted", slog.String("note_id", noteID.String()))
	return nil
}
