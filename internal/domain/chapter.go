package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is a numbered section of a story. Content is serialized rich-text
// markup; WordCount is derived from its plain-text projection at save time.
type Chapter struct {
	ID        uuid.UUID
	StoryID   uuid.UUID
	Number    int
	Title     string
	Content   string
	WordCount int
	Status    ChapterStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChapterUpdate describes a partial chapter update. Nil fields are left untouched.
type ChapterUpdate struct {
	Title     *string
	Content   *string
	WordCount *int
	Status    *ChapterStatus
}

// IsEmpty reports whether the update carries no fields at all.
func (u ChapterUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.WordCount == nil && u.Status == nil
}
