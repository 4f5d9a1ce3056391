package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

type storyResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Genre        string            `json:"genre"`
	Synopsis     string            `json:"synopsis"`
	CoverImage   *string           `json:"coverImage,omitempty"`
	Status       string            `json:"status"`
	StartDate    time.Time         `json:"startDate"`
	Chapters     []chapterResponse `json:"chapters"`
	CharacterIDs []string          `json:"characterIds"`
	Notes        string            `json:"notes"`
	WordCount    int               `json:"wordCount"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type chapterResponse struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"storyId"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	WordCount int       `json:"wordCount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type characterResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Avatar              *string   `json:"avatar,omitempty"`
	Age                 string    `json:"age"`
	PhysicalDescription string    `json:"physicalDescription"`
	Personality         string    `json:"personality"`
	Backstory           string    `json:"backstory"`
	Role                string    `json:"role"`
	Relationships       string    `json:"relationships"`
	StoryIDs            []string  `json:"storyIds"`
	CreatedAt           time.Time `json:"createdAt"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toStoryResponse(s domain.Story) storyResponse {
	chapters := make([]chapterResponse, 0, len(s.Chapters))
	for _, c := range s.Chapters {
		chapters = append(chapters, toChapterResponse(c))
	}
	return storyResponse{
		ID:           s.ID.String(),
		Title:        s.Title,
		Genre:        s.Genre,
		Synopsis:     s.Synopsis,
		CoverImage:   s.CoverImage,
		Status:       s.Status.String(),
		StartDate:    s.StartDate,
		Chapters:     chapters,
		CharacterIDs: idStrings(s.CharacterIDs),
		Notes:        s.Notes,
		WordCount:    s.WordCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toStoryResponses(stories []domain.Story) []storyResponse {
	out := make([]storyResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, toStoryResponse(s))
	}
	return out
}

func toChapterResponse(c domain.Chapter) chapterResponse {
	return chapterResponse{
		ID:        c.ID.String(),
		StoryID:   c.StoryID.String(),
		Number:    c.Number,
		Title:     c.Title,
		Content:   c.Content,
		WordCount: c.WordCount,
		Status:    c.Status.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCharacterResponse(c domain.Character) characterResponse {
	return characterResponse{
		ID:                  c.ID.String(),
		Name:                c.Name,
		Avatar:              c.Avatar,
		Age:                 c.Age,
		PhysicalDescription: c.PhysicalDescription,
		Personality:         c.Personality,
		Backstory:           c.Backstory,
		Role:                c.Role.String(),
		Relationships:       c.Relationships,
		StoryIDs:            idStrings(c.StoryIDs),
		CreatedAt:           c.CreatedAt,
	}
}

func toCharacterResponses(characters []domain.Character) []characterResponse {
	out := make([]characterResponse, 0, len(characters))
	for _, c := range characters {
		out = append(out, toCharacterResponse(c))
	}
	return out
}

func toNoteResponse(n domain.Note) noteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNoteResponses(notes []domain.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
