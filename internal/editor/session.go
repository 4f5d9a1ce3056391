// Package editor holds chapter editor sessions: one in-progress edit buffer
// per open chapter, with debounced autosave. Every edit restarts a single
// inactivity timer; when it fires the buffer is persisted silently through
// the data store. A manual save persists immediately, cancels the pending
// timer and records a confirmation. Sessions opened in new mode create the
// chapter on their first save and then close.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/store"
)

// ErrClosed is returned by operations on a session that has been closed.
var ErrClosed = errors.New("editor session closed")

// chapterStore is the slice of the data store a session writes through.
type chapterStore interface {
	StoryByID(storyID uuid.UUID) (domain.Story, bool)
	AddChapter(ctx context.Context, storyID uuid.UUID, input store.ChapterInput) (*domain.Chapter, error)
	UpdateChapter(ctx context.Context, storyID, chapterID uuid.UUID, upd domain.ChapterUpdate) (*domain.Chapter, error)
	Notify(ctx context.Context, message string)
}

// State is a point-in-time view of a session's buffer.
type State struct {
	StoryID   uuid.UUID            `json:"story_id"`
	ChapterID uuid.UUID            `json:"chapter_id"`
	New       bool                 `json:"new"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Status    domain.ChapterStatus `json:"status"`
	WordCount int                  `json:"word_count"`
	LastSaved time.Time            `json:"last_saved"`
	Closed    bool                 `json:"closed"`
}

// Session owns one chapter's edit buffer. The buffer is seeded once when the
// session opens and is never resynchronized from the store afterwards; edits
// made elsewhere while the session is open are overwritten by its next save.
type Session struct {
	ws    chapterStore
	delay time.Duration

	mu        sync.Mutex
	storyID   uuid.UUID
	chapterID uuid.UUID
	isNew     bool
	title     string
	content   string
	status    domain.ChapterStatus
	lastSaved time.Time
	touched   time.Time
	closed    bool
	timer     *time.Timer
}

// openExisting seeds a session from the chapter's cached state.
func openExisting(ws chapterStore, storyID, chapterID uuid.UUID, delay time.Duration) (*Session, error) {
	story, ok := ws.StoryByID(storyID)
	if !ok {
		return nil, fmt.Errorf("editor: story %s: %w", storyID, domain.ErrNotFound)
	}
	for i := range story.Chapters {
		c := &story.Chapters[i]
		if c.ID != chapterID {
			continue
		}
		return &Session{
			ws:        ws,
			delay:     delay,
			storyID:   storyID,
			chapterID: chapterID,
			title:     c.Title,
			content:   c.Content,
			status:    c.Status,
			touched:   time.Now(),
		}, nil
	}
	return nil, fmt.Errorf("editor: chapter %s: %w", chapterID, domain.ErrNotFound)
}

// openNew starts a session for a chapter that does not exist yet. The default
// title is "Chapter N" for the number the chapter would receive now.
func openNew(ws chapterStore, storyID uuid.UUID, delay time.Duration) (*Session, error) {
	story, ok := ws.StoryByID(storyID)
	if !ok {
		return nil, fmt.Errorf("editor: story %s: %w", storyID, domain.ErrNotFound)
	}
	return &Session{
		ws:      ws,
		delay:   delay,
		storyID: storyID,
		isNew:   true,
		title:   fmt.Sprintf("Chapter %d", story.NextChapterNumber()),
		status:  domain.ChapterStatusDraft,
		touched: time.Now(),
	}, nil
}

// Type replaces the buffer content and restarts the autosave timer. It
// returns the live word count of the new buffer.
func (s *Session) Type(content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	s.content = content
	s.restartTimerLocked()
	return domain.CountWords(content), nil
}

// SetTitle replaces the buffer title and restarts the autosave timer.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.title = title
	s.restartTimerLocked()
	return nil
}

// SetStatus replaces the buffer status and restarts the autosave timer.
func (s *Session) SetStatus(status domain.ChapterStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !status.IsValid() {
		return domain.NewValidationError("status", "unknown status")
	}
	s.status = status
	s.restartTimerLocked()
	return nil
}

// Save persists the buffer immediately and cancels any pending autosave.
// Successful manual saves record a confirmation notification; a session that
// began in new mode closes after its first successful save.
func (s *Session) Save(ctx context.Context) error {
	if err := s.save(ctx); err != nil {
		return err
	}
	s.ws.Notify(ctx, "chapter saved")
	return nil
}

// autosave is the timer callback. Failures are already surfaced through the
// store's notification feed, so they are only dropped here.
func (s *Session) autosave() {
	_ = s.save(context.Background())
}

// save writes the buffer through the store. The lock is held across the
// write so an in-flight save and a firing timer cannot interleave.
func (s *Session) save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopTimerLocked()

	if s.isNew {
		created, err := s.ws.AddChapter(ctx, s.storyID, store.ChapterInput{
			Title:   s.title,
			Content: s.content,
			Status:  s.status,
		})
		if err != nil {
			return fmt.Errorf("editor save: %w", err)
		}
		s.chapterID = created.ID
		s.lastSaved = time.Now()
		// a new-mode session is done after its first successful save
		s.closed = true
		return nil
	}

	title, content, status := s.title, s.content, s.status
	_, err := s.ws.UpdateChapter(ctx, s.storyID, s.chapterID, domain.ChapterUpdate{
		Title:   &title,
		Content: &content,
		Status:  &status,
	})
	if err != nil {
		return fmt.Errorf("editor save: %w", err)
	}
	s.lastSaved = time.Now()
	return nil
}

// Close cancels any pending autosave and marks the session terminal. Nothing
// fires after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.closed = true
}

// State returns a snapshot of the buffer, including the live word count.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		StoryID:   s.storyID,
		ChapterID: s.chapterID,
		New:       s.isNew,
		Title:     s.title,
		Content:   s.content,
		Status:    s.status,
		WordCount: domain.CountWords(s.content),
		LastSaved: s.lastSaved,
		Closed:    s.closed,
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// idleSince reports the time of the last edit or save.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// restartTimerLocked arms the single autosave timer, cancelling any pending
// one. Caller holds s.mu.
func (s *Session) restartTimerLocked() {
	s.touched = time.Now()
	s.stopTimerLocked()
	s.timer = time.AfterFunc(s.delay, s.autosave)
}

// stopTimerLocked cancels the pending autosave, if any. Caller holds s.mu.
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
