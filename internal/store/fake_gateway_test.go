package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// fakeGateway is an in-memory stand-in for the postgres repositories. It
// keeps insertion order so snapshots are deterministic, and individual
// operations can be forced to fail via the fail map.
type fakeGateway struct {
	mu         sync.Mutex
	stories    []domain.Story
	chapters   []domain.Chapter
	characters []domain.Character
	notes      []domain.Note
	links      []domain.CharacterLink
	fail       map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{fail: make(map[string]error)}
}

func (f *fakeGateway) gateways() Gateways {
	return Gateways{
		Stories:    f,
		Chapters:   fakeChapters{f},
		Characters: fakeCharacters{f},
		Notes:      fakeNotes{f},
	}
}

// fakeChapters adapts fakeGateway to the chapter gateway interface; the
// shared Create/Update/Delete names would otherwise collide across gateways.
type fakeChapters struct{ *fakeGateway }

func (w fakeChapters) Create(ctx context.Context, c *domain.Chapter) (*domain.Chapter, error) {
	return w.CreateChapter(ctx, c)
}

func (w fakeChapters) Update(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error) {
	return w.UpdateChapter(ctx, storyID, chapterID, upd)
}

func (w fakeChapters) Delete(ctx context.Context, storyID, chapterID uuid.UUID) error {
	return w.DeleteChapter(ctx, storyID, chapterID)
}

type fakeCharacters struct{ *fakeGateway }

func (w fakeCharacters) Create(ctx context.Context, userID uuid.UUID, c *domain.Character) (*domain.Character, error) {
	return w.CreateCharacter(ctx, userID, c)
}

func (w fakeCharacters) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Character, error) {
	return w.ListCharactersByUser(ctx, userID)
}

func (w fakeCharacters) Update(ctx context.Context, userID, characterID uuid.UUID, upd domain.CharacterUpdate) (*domain.Character, error) {
	return w.UpdateCharacter(ctx, userID, characterID, upd)
}

func (w fakeCharacters) Delete(ctx context.Context, userID, characterID uuid.UUID) error {
	return w.DeleteCharacter(ctx, userID, characterID)
}

type fakeNotes struct{ *fakeGateway }

func (w fakeNotes) Create(ctx context.Context, userID uuid.UUID, n *domain.Note) (*domain.Note, error) {
	return w.CreateNote(ctx, userID, n)
}

func (w fakeNotes) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	return w.ListNotesByUser(ctx, userID)
}

func (w fakeNotes) Update(ctx context.Context, userID, noteID uuid.UUID, upd domain.NoteUpdate) (*domain.Note, error) {
	return w.UpdateNote(ctx, userID, noteID, upd)
}

func (w fakeNotes) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	return w.DeleteNote(ctx, userID, noteID)
}

func (f *fakeGateway) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeGateway) errFor(op string) error {
	return f.fail[op]
}

// story gateway

func (f *fakeGateway) Create(ctx context.Context, userID uuid.UUID, s *domain.Story) (*domain.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("story.create"); err != nil {
		return nil, err
	}
	st := *s
	st.ID = uuid.New()
	st.UserID = userID
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	f.stories = append(f.stories, st)
	out := st
	return &out, nil
}

func (f *fakeGateway) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("story.list"); err != nil {
		return nil, err
	}
	out := []domain.Story{}
	for _, st := range f.stories {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeGateway) Update(ctx context.Context, userID, storyID uuid.UUID, upd domain.StoryUpdate) (*domain.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("story.update"); err != nil {
		return nil, err
	}
	for i := range f.stories {
		st := &f.stories[i]
		if st.ID != storyID || st.UserID != userID {
			continue
		}
		if upd.Title != nil {
			st.Title = *upd.Title
		}
		if upd.Genre != nil {
			st.Genre = *upd.Genre
		}
		if upd.Synopsis != nil {
			st.Synopsis = *upd.Synopsis
		}
		if upd.CoverImage != nil {
			st.CoverImage = upd.CoverImage
		}
		if upd.Status != nil {
			st.Status = *upd.Status
		}
		if upd.StartDate != nil {
			st.StartDate = *upd.StartDate
		}
		if upd.Notes != nil {
			st.Notes = *upd.Notes
		}
		st.UpdatedAt = time.Now()
		out := *st
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) Delete(ctx context.Context, userID, storyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("story.delete"); err != nil {
		return err
	}
	for i := range f.stories {
		if f.stories[i].ID == storyID && f.stories[i].UserID == userID {
			f.stories = append(f.stories[:i], f.stories[i+1:]...)
			f.deleteChaptersLocked(storyID)
			f.deleteLinksLocked(storyID, uuid.Nil)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeGateway) RefreshWordCount(ctx context.Context, storyID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("story.refresh"); err != nil {
		return err
	}
	total := 0
	for _, c := range f.chapters {
		if c.StoryID == storyID {
			total += c.WordCount
		}
	}
	for i := range f.stories {
		if f.stories[i].ID == storyID {
			f.stories[i].WordCount = total
		}
	}
	return nil
}

// chapter gateway

func (f *fakeGateway) CreateChapter(ctx context.Context, c *domain.Chapter) (*domain.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("chapter.create"); err != nil {
		return nil, err
	}
	ch := *c
	ch.ID = uuid.New()
	ch.CreatedAt = time.Now()
	ch.UpdatedAt = ch.CreatedAt
	f.chapters = append(f.chapters, ch)
	out := ch
	return &out, nil
}

func (f *fakeGateway) ListByStories(ctx context.Context, storyIDs []uuid.UUID) ([]domain.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("chapter.list"); err != nil {
		return nil, err
	}
	want := make(map[uuid.UUID]bool, len(storyIDs))
	for _, id := range storyIDs {
		want[id] = true
	}
	out := []domain.Chapter{}
	for _, c := range f.chapters {
		if want[c.StoryID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGateway) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("chapter.count"); err != nil {
		return 0, err
	}
	n := 0
	for _, c := range f.chapters {
		if c.StoryID == storyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGateway) UpdateChapter(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("chapter.update"); err != nil {
		return nil, err
	}
	for i := range f.chapters {
		c := &f.chapters[i]
		if c.ID != chapterID || c.StoryID != storyID {
			continue
		}
		if upd.Title != nil {
			c.Title = *upd.Title
		}
		if upd.Content != nil {
			c.Content = *upd.Content
		}
		if upd.WordCount != nil {
			c.WordCount = *upd.WordCount
		}
		if upd.Status != nil {
			c.Status = *upd.Status
		}
		c.UpdatedAt = time.Now()
		out := *c
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) DeleteChapter(ctx context.Context, storyID, chapterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("chapter.delete"); err != nil {
		return err
	}
	for i := range f.chapters {
		if f.chapters[i].ID == chapterID && f.chapters[i].StoryID == storyID {
			f.chapters = append(f.chapters[:i], f.chapters[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// character gateway

func (f *fakeGateway) CreateCharacter(ctx context.Context, userID uuid.UUID, c *domain.Character) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.create"); err != nil {
		return nil, err
	}
	ch := *c
	ch.ID = uuid.New()
	ch.UserID = userID
	ch.CreatedAt = time.Now()
	f.characters = append(f.characters, ch)
	out := ch
	return &out, nil
}

func (f *fakeGateway) ListCharactersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.list"); err != nil {
		return nil, err
	}
	out := []domain.Character{}
	for _, c := range f.characters {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGateway) UpdateCharacter(ctx context.Context, userID, characterID uuid.UUID, upd domain.CharacterUpdate) (*domain.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.update"); err != nil {
		return nil, err
	}
	for i := range f.characters {
		c := &f.characters[i]
		if c.ID != characterID || c.UserID != userID {
			continue
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Avatar != nil {
			c.Avatar = upd.Avatar
		}
		if upd.Age != nil {
			c.Age = *upd.Age
		}
		if upd.PhysicalDescription != nil {
			c.PhysicalDescription = *upd.PhysicalDescription
		}
		if upd.Personality != nil {
			c.Personality = *upd.Personality
		}
		if upd.Backstory != nil {
			c.Backstory = *upd.Backstory
		}
		if upd.Role != nil {
			c.Role = *upd.Role
		}
		if upd.Relationships != nil {
			c.Relationships = *upd.Relationships
		}
		out := *c
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) DeleteCharacter(ctx context.Context, userID, characterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.delete"); err != nil {
		return err
	}
	for i := range f.characters {
		if f.characters[i].ID == characterID && f.characters[i].UserID == userID {
			f.characters = append(f.characters[:i], f.characters[i+1:]...)
			f.deleteLinksLocked(uuid.Nil, characterID)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeGateway) Links(ctx context.Context, userID uuid.UUID) ([]domain.CharacterLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.links"); err != nil {
		return nil, err
	}
	out := make([]domain.CharacterLink, len(f.links))
	copy(out, f.links)
	return out, nil
}

func (f *fakeGateway) ReplaceStoriesForCharacter(ctx context.Context, characterID uuid.UUID, storyIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.replaceStories"); err != nil {
		return err
	}
	f.deleteLinksLocked(uuid.Nil, characterID)
	for _, sid := range storyIDs {
		f.links = append(f.links, domain.CharacterLink{StoryID: sid, CharacterID: characterID})
	}
	return nil
}

func (f *fakeGateway) ReplaceCharactersForStory(ctx context.Context, storyID uuid.UUID, characterIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.replaceCharacters"); err != nil {
		return err
	}
	f.deleteLinksLocked(storyID, uuid.Nil)
	for _, cid := range characterIDs {
		f.links = append(f.links, domain.CharacterLink{StoryID: storyID, CharacterID: cid})
	}
	return nil
}

func (f *fakeGateway) Unlink(ctx context.Context, storyID, characterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("character.unlink"); err != nil {
		return err
	}
	for i := range f.links {
		if f.links[i].StoryID == storyID && f.links[i].CharacterID == characterID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return nil
}

// note gateway

func (f *fakeGateway) CreateNote(ctx context.Context, userID uuid.UUID, n *domain.Note) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("note.create"); err != nil {
		return nil, err
	}
	nt := *n
	nt.ID = uuid.New()
	nt.UserID = userID
	nt.CreatedAt = time.Now()
	nt.UpdatedAt = nt.CreatedAt
	f.notes = append(f.notes, nt)
	out := nt
	return &out, nil
}

func (f *fakeGateway) ListNotesByUser(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("note.list"); err != nil {
		return nil, err
	}
	out := []domain.Note{}
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeGateway) UpdateNote(ctx context.Context, userID, noteID uuid.UUID, upd domain.NoteUpdate) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("note.update"); err != nil {
		return nil, err
	}
	for i := range f.notes {
		n := &f.notes[i]
		if n.ID != noteID || n.UserID != userID {
			continue
		}
		if upd.Title != nil {
			n.Title = *upd.Title
		}
		if upd.Content != nil {
			n.Content = *upd.Content
		}
		if upd.Tags != nil {
			n.Tags = *upd.Tags
		}
		n.UpdatedAt = time.Now()
		out := *n
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("note.delete"); err != nil {
		return err
	}
	for i := range f.notes {
		if f.notes[i].ID == noteID && f.notes[i].UserID == userID {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// deleteChaptersLocked drops all chapters of a story. Caller holds f.mu.
func (f *fakeGateway) deleteChaptersLocked(storyID uuid.UUID) {
	kept := f.chapters[:0]
	for _, c := range f.chapters {
		if c.StoryID != storyID {
			kept = append(kept, c)
		}
	}
	f.chapters = kept
}

// deleteLinksLocked drops links matching the non-nil side. Caller holds f.mu.
func (f *fakeGateway) deleteLinksLocked(storyID, characterID uuid.UUID) {
	kept := f.links[:0]
	for _, l := range f.links {
		if (storyID != uuid.Nil && l.StoryID == storyID) ||
			(characterID != uuid.Nil && l.CharacterID == characterID) {
			continue
		}
		kept = append(kept, l)
	}
	f.links = kept
}
