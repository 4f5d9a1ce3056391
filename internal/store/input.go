package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// StoryInput holds parameters for creating a story.
type StoryInput struct {
	Title        string
	Genre        string
	Synopsis     string
	Status       domain.StoryStatus
	StartDate    time.Time
	Notes        string
	CharacterIDs []uuid.UUID
}

// Validate validates the story input. A zero Status defaults to draft.
func (i *StoryInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if i.Status == "" {
		i.Status = domain.StoryStatusDraft
	} else if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ChapterInput holds parameters for creating a chapter.
type ChapterInput struct {
	Title   string
	Content string
	Status  domain.ChapterStatus
}

// Validate validates the chapter input. A zero Status defaults to draft.
func (i *ChapterInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if i.Status == "" {
		i.Status = domain.ChapterStatusDraft
	} else if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CharacterInput holds parameters for creating a character.
type CharacterInput struct {
	Name                string
	Avatar              *string
	Age                 string
	PhysicalDescription string
	Personality         string
	Backstory           string
	Role                domain.CharacterRole
	Relationships       string
	StoryIDs            []uuid.UUID
}

// Validate validates the character input. A zero Role defaults to other.
func (i *CharacterInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	if i.Role == "" {
		i.Role = domain.CharacterRoleOther
	} else if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "unknown role"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// NoteInput holds parameters for creating a note.
type NoteInput struct {
	Title   string
	Content string
	Tags    []string
}

// Validate validates the note input.
func (i *NoteInput) Validate() error {
	var errs []domain.FieldError

	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
