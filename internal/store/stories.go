package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// AddStory creates a story, replaces its character links if any were given,
// and refetches the stories collection. A failed write leaves the cache
// unchanged and records a notification.
func (s *Store) AddStory(ctx context.Context, input StoryInput) (*domain.Story, error) {
	// Step 1: Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Write through the gateway
	created, err := s.gw.Stories.Create(ctx, s.userID, &domain.Story{
		Title:     input.Title,
		Genre:     input.Genre,
		Synopsis:  input.Synopsis,
		Status:    input.Status,
		StartDate: input.StartDate,
		Notes:     input.Notes,
	})
	if err != nil {
		s.notify(ctx, "couldn't save story")
		return nil, fmt.Errorf("store.AddStory: %w", err)
	}

	if len(input.CharacterIDs) > 0 {
		if err := s.gw.Characters.ReplaceCharactersForStory(ctx, created.ID, input.CharacterIDs); err != nil {
			s.notify(ctx, "couldn't link characters to story")
			return nil, fmt.Errorf("store.AddStory links: %w", err)
		}
	}

	// Step 3: Refetch the affected collection
	if err := s.refetchStories(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "story added", slog.String("story_id", created.ID.String()))
	return created, nil
}

// UpdateStory applies a partial update. A non-nil CharacterIDs replaces the
// story's character links wholesale before the field update is written.
func (s *Store) UpdateStory(ctx context.Context, storyID uuid.UUID, upd domain.StoryUpdate) (*domain.Story, error) {
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "status", Message: "unknown status"},
		}}
	}

	if upd.CharacterIDs != nil {
		if err := s.gw.Characters.ReplaceCharactersForStory(ctx, storyID, *upd.CharacterIDs); err != nil {
			s.notify(ctx, "couldn't update story characters")
			return nil, fmt.Errorf("store.UpdateStory links: %w", err)
		}
	}

	updated, err := s.gw.Stories.Update(ctx, s.userID, storyID, upd)
	if err != nil {
		s.notify(ctx, "couldn't update story")
		return nil, fmt.Errorf("store.UpdateStory: %w", err)
	}

	if err := s.refetchStories(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "story updated", slog.String("story_id", storyID.String()))
	return updated, nil
}

// DeleteStory removes a story and, via cascade, its chapters and character
// links.
func (s *Store) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	if err := s.gw.Stories.Delete(ctx, s.userID, storyID); err != nil {
		s.notify(ctx, "couldn't delete story")
		return fmt.Errorf("store.DeleteStory: %w", err)
	}

	if err := s.refetchStories(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "story deleted", slog.String("story_id", storyID.String()))
	return nil
}

// AddChapter creates a chapter under a story. The chapter number is the
// story's chapter count at creation time plus one; numbers are never reused
// after deletes, so gaps are normal. The story's stored word count is
// refreshed before the collection refetch.
func (s *Store) AddChapter(ctx context.Context, storyID uuid.UUID, input ChapterInput) (*domain.Chapter, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	count, err := s.gw.Chapters.CountByStory(ctx, storyID)
	if err != nil {
		s.notify(ctx, "couldn't save chapter")
		return nil, fmt.Errorf("store.AddChapter count: %w", err)
	}

	created, err := s.gw.Chapters.Create(ctx, &domain.Chapter{
		StoryID:   storyID,
		Number:    count + 1,
		Title:     input.Title,
		Content:   input.Content,
		WordCount: domain.CountWords(input.Content),
		Status:    input.Status,
	})
	if err != nil {
		s.notify(ctx, "couldn't save chapter")
		return nil, fmt.Errorf("store.AddChapter: %w", err)
	}

	if err := s.gw.Stories.RefreshWordCount(ctx, storyID); err != nil {
		s.notify(ctx, "couldn't refresh story word count")
		return nil, fmt.Errorf("store.AddChapter refresh: %w", err)
	}

	if err := s.refetchStories(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "chapter added",
		slog.String("story_id", storyID.String()),
		slog.String("chapter_id", created.ID.String()),
		slog.Int("number", created.Number))
	return created, nil
}

// UpdateChapter applies a partial update. When content changes and no word
// count is supplied, the count is recomputed from the content's plain-text
// projection.
func (s *Store) UpdateChapter(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error) {
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "status", Message: "unknown status"},
		}}
	}

	if upd.Content != nil && upd.WordCount == nil {
		wc := domain.CountWords(*upd.Content)
		upd.WordCount = &wc
	}

	updated, err := s.gw.Chapters.Update(ctx, storyID, chapterID, upd)
	if err != nil {
		s.notify(ctx, "couldn't update chapter")
		return nil, fmt.Errorf("store.UpdateChapter: %w", err)
	}

	if err := s.gw.Stories.RefreshWordCount(ctx, storyID); err != nil {
		s.notify(ctx, "couldn't refresh story word count")
		return nil, fmt.Errorf("store.UpdateChapter refresh: %w", err)
	}

	if err := s.refetchStories(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "chapter updated",
		slog.String("story_id", storyID.String()),
		slog.String("chapter_id", chapterID.String()))
	return updated, nil
}

// DeleteChapter removes a chapter. Remaining chapters keep their numbers.
func (s *Store) DeleteChapter(ctx context.Context, storyID, chapterID uuid.UUID) error {
	if err := s.gw.Chapters.Delete(ctx, storyID, chapterID); err != nil {
		s.notify(ctx, "couldn't delete chapter")
		return fmt.Errorf("store.DeleteChapter: %w", err)
	}

	if err := s.gw.Stories.RefreshWordCount(ctx, storyID); err != nil {
		s.notify(ctx, "couldn't refresh story word count")
		return fmt.Errorf("store.DeleteChapter refresh: %w", err)
	}

	if err := s.refetchStories(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "chapter deleted",
		slog.String("story_id", storyID.String()),
		slog.String("chapter_id", chapterID.String()))
	return nil
}
