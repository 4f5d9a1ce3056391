package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is a free-form note with tags. Notes are independent of stories and
// characters.
type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteUpdate describes a partial note update. Nil fields are left untouched.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// IsEmpty reports whether the update carries no fields at all.
func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil
}
