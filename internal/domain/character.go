package domain

import (
	"time"

	"github.com/google/uuid"
)

// Character is a reusable character sheet. StoryIDs holds the identifiers of
// the stories it is linked to via the story_characters join.
type Character struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	Avatar              *string
	Age                 string
	PhysicalDescription string
	Personality         string
	Backstory           string
	Role                CharacterRole
	Relationships       string
	StoryIDs            []uuid.UUID
	CreatedAt           time.Time
}

// CharacterLink is one row of the story_characters join.
type CharacterLink struct {
	StoryID     uuid.UUID
	CharacterID uuid.UUID
}

// CharacterUpdate describes a partial character update. Nil fields are left
// untouched. A non-nil StoryIDs replaces the character's story links wholesale.
type CharacterUpdate struct {
	Name                *string
	Avatar              *string
	Age                 *string
	PhysicalDescription *string
	Personality         *string
	Backstory           *string
	Role                *CharacterRole
	Relationships       *string
	StoryIDs            *[]uuid.UUID
}

// IsEmpty reports whether the update carries no fields at all.
func (u CharacterUpdate) IsEmpty() bool {
	return u.Name == nil && u.Avatar == nil && u.Age == nil &&
		u.PhysicalDescription == nil && u.Personality == nil &&
		u.Backstory == nil && u.Role == nil && u.Relationships == nil &&
		u.StoryIDs == nil
}
