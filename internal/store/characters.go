package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// AddCharacter creates a character, replaces its story links if any were
// given, and refetches the characters collection.
func (s *Store) AddCharacter(ctx context.Context, input CharacterInput) (*domain.Character, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.gw.Characters.Create(ctx, s.userID, &domain.Character{
		Name:                input.Name,
		Avatar:              input.Avatar,
		Age:                 input.Age,
		PhysicalDescription: input.PhysicalDescription,
		Personality:         input.Personality,
		Backstory:           input.Backstory,
		Role:                input.Role,
		Relationships:       input.Relationships,
	})
	if err != nil {
		s.notify(ctx, "couldn't save character")
		return nil, fmt.Errorf("store.AddCharacter: %w", err)
	}

	if len(input.StoryIDs) > 0 {
		if err := s.gw.Characters.ReplaceStoriesForCharacter(ctx, created.ID, input.StoryIDs); err != nil {
			s.notify(ctx, "couldn't link character to stories")
			return nil, fmt.Errorf("store.AddCharacter links: %w", err)
		}
	}

	if err := s.refetchCharacters(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "character added", slog.String("character_id", created.ID.String()))
	return created, nil
}

// UpdateCharacter applies a partial update. A non-nil StoryIDs replaces the
// character's story links wholesale before the field update is written.
func (s *Store) UpdateCharacter(ctx context.Context, characterID uuid.UUID, upd domain.CharacterUpdate) (*domain.Character, error) {
	if upd.Role != nil && !upd.Role.IsValid() {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "role", Message: "unknown role"},
		}}
	}

	if upd.StoryIDs != nil {
		if err := s.gw.Characters.ReplaceStoriesForCharacter(ctx, characterID, *upd.StoryIDs); err != nil {
			s.notify(ctx, "couldn't update character stories")
			return nil, fmt.Errorf("store.UpdateCharacter links: %w", err)
		}
	}

	updated, err := s.gw.Characters.Update(ctx, s.userID, characterID, upd)
	if err != nil {
		s.notify(ctx, "couldn't update character")
		return nil, fmt.Errorf("store.UpdateCharacter: %w", err)
	}

	if err := s.refetchCharacters(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "character updated", slog.String("character_id", characterID.String()))
	return updated, nil
}

// DeleteCharacter removes a character and, via cascade, its story links. The
// linked stories themselves are untouched.
func (s *Store) DeleteCharacter(ctx context.Context, characterID uuid.UUID) error {
	if err := s.gw.Characters.Delete(ctx, s.userID, characterID); err != nil {
		s.notify(ctx, "couldn't delete character")
		return fmt.Errorf("store.DeleteCharacter: %w", err)
	}

	if err := s.refetchCharacters(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "character deleted", slog.String("character_id", characterID.String()))
	return nil
}

// UnlinkCharacter removes a single story-character link. Both the story and
// the character survive; only the association goes away. Unlinking a pair
// that is not linked is a no-op.
func (s *Store) UnlinkCharacter(ctx context.Context, storyID, characterID uuid.UUID) error {
	if err := s.gw.Characters.Unlink(ctx, storyID, characterID); err != nil {
		s.notify(ctx, "couldn't unlink character")
		return fmt.Errorf("store.UnlinkCharacter: %w", err)
	}

	if err := s.refetchCharacters(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "character unlinked",
		slog.String("story_id", storyID.String()),
		slog.String("character_id", characterID.String()))
	return nil
}
