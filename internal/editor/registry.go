package editor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/config"
)

// sessionKey identifies one editor session. A new-mode session has a nil
// chapter ID until its first save, so one new chapter per story can be
// drafted at a time.
type sessionKey struct {
	userID    uuid.UUID
	storyID   uuid.UUID
	chapterID uuid.UUID
}

// Registry tracks open editor sessions across requests. Sessions are evicted
// on logout and when idle past the configured TTL.
type Registry struct {
	log *slog.Logger
	cfg config.EditorConfig

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger, cfg config.EditorConfig) *Registry {
	return &Registry{
		log:      logger.With("service", "editor"),
		cfg:      cfg,
		sessions: make(map[sessionKey]*Session),
	}
}

// Open returns the user's session for the chapter, creating one on first
// use. A nil chapterID opens the session in new mode. An existing session is
// returned as-is: its buffer keeps the state it was seeded with.
func (r *Registry) Open(userID, storyID, chapterID uuid.UUID, ws chapterStore) (*Session, error) {
	key := sessionKey{userID: userID, storyID: storyID, chapterID: chapterID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[key]; ok {
		if !s.isClosed() {
			return s, nil
		}
		delete(r.sessions, key)
	}

	var (
		s   *Session
		err error
	)
	if chapterID == uuid.Nil {
		s, err = openNew(ws, storyID, r.cfg.AutosaveDelay)
	} else {
		s, err = openExisting(ws, storyID, chapterID, r.cfg.AutosaveDelay)
	}
	if err != nil {
		return nil, err
	}
	r.sessions[key] = s
	return s, nil
}

// Get returns an existing session, or nil if none is open for the key.
func (r *Registry) Get(userID, storyID, chapterID uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{userID: userID, storyID: storyID, chapterID: chapterID}
	if s, ok := r.sessions[key]; ok && !s.isClosed() {
		return s
	}
	return nil
}

// Close closes and removes one session. Closing an absent session is a no-op.
func (r *Registry) Close(userID, storyID, chapterID uuid.UUID) {
	key := sessionKey{userID: userID, storyID: storyID, chapterID: chapterID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[key]; ok {
		s.Close()
		delete(r.sessions, key)
	}
}

// Drop closes and removes every session the user has open.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.sessions {
		if key.userID == userID {
			s.Close()
			delete(r.sessions, key)
		}
	}
}

// Prune closes sessions idle past the configured TTL. Meant to be called
// periodically from the app's background loop.
func (r *Registry) Prune() {
	cutoff := time.Now().Add(-r.cfg.SessionTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			s.Close()
			delete(r.sessions, key)
			r.log.Info("idle editor session evicted",
				slog.String("user_id", key.userID.String()),
				slog.String("story_id", key.storyID.String()))
		}
	}
}
