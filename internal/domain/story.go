package domain

import (
	"time"

	"github.com/google/uuid"
)

// Story is a top-level writing project. Chapters are ordered by Number and
// CharacterIDs holds the linked character identifiers from the M2M join.
// WordCount is the sum of the chapters' word counts, recomputed on every fetch.
type Story struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Genre        string
	Synopsis     string
	CoverImage   *string
	Status       StoryStatus
	StartDate    time.Time
	Chapters     []Chapter
	CharacterIDs []uuid.UUID
	Notes        string
	WordCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SumChapterWords returns the combined word count of the story's chapters.
func (s *Story) SumChapterWords() int {
	total := 0
	for i := range s.Chapters {
		total += s.Chapters[i].WordCount
	}
	return total
}

// NextChapterNumber returns the number a chapter created now would receive.
// Numbers are count-at-creation + 1 and are never reassigned on deletion.
func (s *Story) NextChapterNumber() int {
	return len(s.Chapters) + 1
}

// StoryUpdate describes a partial story update. Nil fields are left untouched.
// A non-nil CharacterIDs replaces the story's character links wholesale.
type StoryUpdate struct {
	Title        *string
	Genre        *string
	Synopsis     *string
	CoverImage   *string
	Status       *StoryStatus
	StartDate    *time.Time
	Notes        *string
	CharacterIDs *[]uuid.UUID
}

// IsEmpty reports whether the update carries no fields at all.
func (u StoryUpdate) IsEmpty() bool {
	return u.Title == nil && u.Genre == nil && u.Synopsis == nil &&
		u.CoverImage == nil && u.Status == nil && u.StartDate == nil &&
		u.Notes == nil && u.CharacterIDs == nil
}
