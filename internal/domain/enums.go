package domain

// StoryStatus represents the lifecycle state of a story.
type StoryStatus string

const (
	StoryStatusDraft      StoryStatus = "draft"
	StoryStatusInProgress StoryStatus = "in-progress"
	StoryStatusCompleted  StoryStatus = "completed"
	StoryStatusPaused     StoryStatus = "paused"
)

func (s StoryStatus) String() string { return string(s) }

func (s StoryStatus) IsValid() bool {
	switch s {
	case StoryStatusDraft, StoryStatusInProgress, StoryStatusCompleted, StoryStatusPaused:
		return true
	}
	return false
}

// ChapterStatus represents the editorial state of a chapter.
type ChapterStatus string

const (
	ChapterStatusDraft     ChapterStatus = "draft"
	ChapterStatusReview    ChapterStatus = "review"
	ChapterStatusPublished ChapterStatus = "published"
)

func (s ChapterStatus) String() string { return string(s) }

func (s ChapterStatus) IsValid() bool {
	switch s {
	case ChapterStatusDraft, ChapterStatusReview, ChapterStatusPublished:
		return true
	}
	return false
}

// CharacterRole represents a character's narrative function.
type CharacterRole string

const (
	CharacterRoleProtagonist CharacterRole = "protagonist"
	CharacterRoleAntagonist  CharacterRole = "antagonist"
	CharacterRoleSupporting  CharacterRole = "supporting"
	CharacterRoleOther       CharacterRole = "other"
)

func (r CharacterRole) String() string { return string(r) }

func (r CharacterRole) IsValid() bool {
	switch r {
	case CharacterRoleProtagonist, CharacterRoleAntagonist, CharacterRoleSupporting, CharacterRoleOther:
		return true
	}
	return false
}
