// Package store holds the per-user in-memory working set of the writing
// workspace: stories with their chapters and character links, characters and
// notes. Every mutation is written through the postgres gateway first and, on
// success, the affected collection is refetched wholesale. A failed write
// leaves the cached snapshot untouched and records a user-facing notification,
// so readers always observe a state that existed in the database.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// storyGateway defines the story repository interface needed by the store.
type storyGateway interface {
	Create(ctx context.Context, userID uuid.UUID, s *domain.Story) (*domain.Story, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Story, error)
	Update(ctx context.Context, userID, storyID uuid.UUID, upd domain.StoryUpdate) (*domain.Story, error)
	Delete(ctx context.Context, userID, storyID uuid.UUID) error
	RefreshWordCount(ctx context.Context, storyID uuid.UUID) error
}

// chapterGateway defines the chapter repository interface needed by the store.
type chapterGateway interface {
	Create(ctx context.Context, c *domain.Chapter) (*domain.Chapter, error)
	ListByStories(ctx context.Context, storyIDs []uuid.UUID) ([]domain.Chapter, error)
	CountByStory(ctx context.Context, storyID uuid.UUID) (int, error)
	Update(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error)
	Delete(ctx context.Context, storyID, chapterID uuid.UUID) error
}

// characterGateway defines the character repository interface needed by the store.
type characterGateway interface {
	Create(ctx context.Context, userID uuid.UUID, c *domain.Character) (*domain.Character, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Character, error)
	Update(ctx context.Context, userID, characterID uuid.UUID, upd domain.CharacterUpdate) (*domain.Character, error)
	Delete(ctx context.Context, userID, characterID uuid.UUID) error
	Links(ctx context.Context, userID uuid.UUID) ([]domain.CharacterLink, error)
	ReplaceStoriesForCharacter(ctx context.Context, characterID uuid.UUID, storyIDs []uuid.UUID) error
	ReplaceCharactersForStory(ctx context.Context, storyID uuid.UUID, characterIDs []uuid.UUID) error
	Unlink(ctx context.Context, storyID, characterID uuid.UUID) error
}

// noteGateway defines the note repository interface needed by the store.
type noteGateway interface {
	Create(ctx context.Context, userID uuid.UUID, n *domain.Note) (*domain.Note, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Note, error)
	Update(ctx context.Context, userID, noteID uuid.UUID, upd domain.NoteUpdate) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID uuid.UUID) error
}

// Gateways bundles the repositories the store writes through.
type Gateways struct {
	Stories    storyGateway
	Chapters   chapterGateway
	Characters characterGateway
	Notes      noteGateway
}

// Store is the per-user session cache. Only Store methods write the cached
// collections; readers get copies of the current snapshot.
type Store struct {
	log    *slog.Logger
	userID uuid.UUID
	gw     Gateways

	mu         sync.RWMutex
	loaded     bool
	stories    []domain.Story
	characters []domain.Character
	notes      []domain.Note

	feed *feed
}

// New creates a store for one user. The cache starts empty; call FetchAll to
// populate it.
func New(logger *slog.Logger, userID uuid.UUID, gw Gateways) *Store {
	return &Store{
		log:        logger.With("service", "store", "user_id", userID.String()),
		userID:     userID,
		gw:         gw,
		stories:    []domain.Story{},
		characters: []domain.Character{},
		notes:      []domain.Note{},
		feed:       newFeed(),
	}
}

// UserID returns the owning user's identifier.
func (s *Store) UserID() uuid.UUID {
	return s.userID
}

// EnsureLoaded populates the cache on first use. Subsequent calls are no-ops;
// overlapping first calls both fetch and the later one wins.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.FetchAll(ctx)
}

// FetchAll reloads every collection from the gateway and replaces the cache
// wholesale. On any read error the prior cache stays intact.
func (s *Store) FetchAll(ctx context.Context) error {
	var (
		stories    []domain.Story
		characters []domain.Character
		notes      []domain.Note
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stories, err = s.loadStories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		characters, err = s.gw.Characters.ListByUser(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.gw.Notes.ListByUser(gctx, s.userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.notify(ctx, "failed to load your workspace")
		return fmt.Errorf("store.FetchAll: %w", err)
	}

	links, err := s.gw.Characters.Links(ctx, s.userID)
	if err != nil {
		s.notify(ctx, "failed to load your workspace")
		return fmt.Errorf("store.FetchAll links: %w", err)
	}
	attachLinks(stories, characters, links)

	s.mu.Lock()
	s.loaded = true
	s.stories = stories
	s.characters = characters
	s.notes = notes
	s.mu.Unlock()

	s.log.InfoContext(ctx, "workspace loaded",
		slog.Int("stories", len(stories)),
		slog.Int("characters", len(characters)),
		slog.Int("notes", len(notes)))

	return nil
}

// loadStories fetches the user's stories and their chapters in one batch and
// recomputes each story's word count from its chapters.
func (s *Store) loadStories(ctx context.Context) ([]domain.Story, error) {
	stories, err := s.gw.Stories.ListByUser(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	ids := make([]uuid.UUID, len(stories))
	for i := range stories {
		ids[i] = stories[i].ID
	}

	chapters, err := s.gw.Chapters.ListByStories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	byStory := make(map[uuid.UUID][]domain.Chapter, len(stories))
	for _, c := range chapters {
		byStory[c.StoryID] = append(byStory[c.StoryID], c)
	}

	for i := range stories {
		chs := byStory[stories[i].ID]
		if chs == nil {
			chs = []domain.Chapter{}
		}
		stories[i].Chapters = chs
		stories[i].WordCount = stories[i].SumChapterWords()
		stories[i].CharacterIDs = []uuid.UUID{}
	}

	return stories, nil
}

// attachLinks populates both directions of the story-character M2M from the
// join rows.
func attachLinks(stories []domain.Story, characters []domain.Character, links []domain.CharacterLink) {
	storyIdx := make(map[uuid.UUID]int, len(stories))
	for i := range stories {
		storyIdx[stories[i].ID] = i
	}
	charIdx := make(map[uuid.UUID]int, len(characters))
	for i := range characters {
		characters[i].StoryIDs = []uuid.UUID{}
		charIdx[characters[i].ID] = i
	}

	for _, l := range links {
		if i, ok := storyIdx[l.StoryID]; ok {
			stories[i].CharacterIDs = append(stories[i].CharacterIDs, l.CharacterID)
		}
		if i, ok := charIdx[l.CharacterID]; ok {
			characters[i].StoryIDs = append(characters[i].StoryIDs, l.StoryID)
		}
	}
}

// refetchStories reloads stories (with chapters and links) only, leaving the
// other collections alone. Links touch characters too, so both sides of the
// join are rebuilt from the same snapshot.
func (s *Store) refetchStories(ctx context.Context) error {
	stories, err := s.loadStories(ctx)
	if err != nil {
		s.notify(ctx, "failed to refresh stories")
		return fmt.Errorf("store.refetchStories: %w", err)
	}

	links, err := s.gw.Characters.Links(ctx, s.userID)
	if err != nil {
		s.notify(ctx, "failed to refresh stories")
		return fmt.Errorf("store.refetchStories links: %w", err)
	}

	s.mu.Lock()
	characters := cloneCharacters(s.characters)
	attachLinks(stories, characters, links)
	s.stories = stories
	s.characters = characters
	s.mu.Unlock()

	return nil
}

// refetchCharacters reloads characters and the join, rebuilding the stories'
// character-ID sets from the same snapshot.
func (s *Store) refetchCharacters(ctx context.Context) error {
	characters, err := s.gw.Characters.ListByUser(ctx, s.userID)
	if err != nil {
		s.notify(ctx, "failed to refresh characters")
		return fmt.Errorf("store.refetchCharacters: %w", err)
	}

	links, err := s.gw.Characters.Links(ctx, s.userID)
	if err != nil {
		s.notify(ctx, "failed to refresh characters")
		return fmt.Errorf("store.refetchCharacters links: %w", err)
	}

	s.mu.Lock()
	stories := cloneStories(s.stories)
	for i := range stories {
		stories[i].CharacterIDs = []uuid.UUID{}
	}
	attachLinks(stories, characters, links)
	s.stories = stories
	s.characters = characters
	s.mu.Unlock()

	return nil
}

// refetchNotes reloads the notes collection only.
func (s *Store) refetchNotes(ctx context.Context) error {
	notes, err := s.gw.Notes.ListByUser(ctx, s.userID)
	if err != nil {
		s.notify(ctx, "failed to refresh notes")
		return fmt.Errorf("store.refetchNotes: %w", err)
	}

	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()

	return nil
}

// Stories returns a copy of the cached stories snapshot.
func (s *Store) Stories() []domain.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStories(s.stories)
}

// StoryByID returns a copy of one cached story.
func (s *Store) StoryByID(storyID uuid.UUID) (domain.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.stories {
		if s.stories[i].ID == storyID {
			return cloneStory(s.stories[i]), true
		}
	}
	return domain.Story{}, false
}

// Characters returns a copy of the cached characters snapshot.
func (s *Store) Characters() []domain.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCharacters(s.characters)
}

// Notes returns a copy of the cached notes snapshot.
func (s *Store) Notes() []domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := make([]domain.Note, len(s.notes))
	copy(notes, s.notes)
	return notes
}

// notify records a user-facing notification on the feed and logs it.
func (s *Store) notify(ctx context.Context, message string) {
	s.feed.add(message)
	s.log.WarnContext(ctx, "store notification", slog.String("message", message))
}

// Notify records a user-facing notification on behalf of a collaborating
// component, such as the chapter editor confirming a manual save.
func (s *Store) Notify(ctx context.Context, message string) {
	s.feed.add(message)
	s.log.InfoContext(ctx, "notification", slog.String("message", message))
}

// Notifications returns the recorded notifications, oldest first.
func (s *Store) Notifications() []Notification {
	return s.feed.list()
}

func cloneStory(st domain.Story) domain.Story {
	out := st
	out.Chapters = make([]domain.Chapter, len(st.Chapters))
	copy(out.Chapters, st.Chapters)
	out.CharacterIDs = make([]uuid.UUID, len(st.CharacterIDs))
	copy(out.CharacterIDs, st.CharacterIDs)
	return out
}

func cloneStories(stories []domain.Story) []domain.Story {
	out := make([]domain.Story, len(stories))
	for i := range stories {
		out[i] = cloneStory(stories[i])
	}
	return out
}

func cloneCharacters(characters []domain.Character) []domain.Character {
	out := make([]domain.Character, len(characters))
	for i := range characters {
		out[i] = characters[i]
		out[i].StoryIDs = make([]uuid.UUID, len(characters[i].StoryIDs))
		copy(out[i].StoryIDs, characters[i].StoryIDs)
	}
	return out
}
