package store

import "github.com/storylabhq/storylab-backend/internal/domain"

// Summary is an aggregate view over the cached workspace.
type Summary struct {
	TotalWords    int            `json:"total_words"`
	TotalChapters int            `json:"total_chapters"`
	ActiveStories int            `json:"active_stories"`
	Characters    int            `json:"characters"`
	Stories       []StorySummary `json:"stories"`
}

// StorySummary is the per-story slice of the aggregate view.
type StorySummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Chapters int    `json:"chapters"`
	Words    int    `json:"words"`
}

// Summary derives workspace statistics from the cached snapshot. Active
// stories are those whose status is in progress.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Characters: len(s.characters),
		Stories:    make([]StorySummary, 0, len(s.stories)),
	}
	for i := range s.stories {
		st := &s.stories[i]
		words := st.SumChapterWords()
		sum.TotalWords += words
		sum.TotalChapters += len(st.Chapters)
		if st.Status == domain.StoryStatusInProgress {
			sum.ActiveStories++
		}
		sum.Stories = append(sum.Stories, StorySummary{
			ID:       st.ID.String(),
			Title:    st.Title,
			Chapters: len(st.Chapters),
			Words:    words,
		})
	}
	return sum
}
