package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/editor"
	"github.com/storylabhq/storylab-backend/pkg/ctxutil"
)

// EditorHandler serves chapter editor session endpoints. The chapter path
// segment accepts the literal "new" to draft a chapter that does not exist yet.
type EditorHandler struct {
	stores   workspaceResolver
	sessions *editor.Registry
	log      *slog.Logger
}

// NewEditorHandler creates an EditorHandler.
func NewEditorHandler(stores workspaceResolver, sessions *editor.Registry, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{stores: stores, sessions: sessions, log: logger.With("handler", "editor")}
}

type editorContentRequest struct {
	Content string `json:"content"`
}

type editorTitleRequest struct {
	Title string `json:"title"`
}

type editorStatusRequest struct {
	Status string `json:"status"`
}

type editorStateResponse struct {
	StoryID   string     `json:"storyId"`
	ChapterID string     `json:"chapterId,omitempty"`
	New       bool       `json:"new"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    string     `json:"status"`
	WordCount int        `json:"wordCount"`
	LastSaved *time.Time `json:"lastSaved,omitempty"`
	Closed    bool       `json:"closed"`
}

// Open handles POST /api/stories/{storyID}/chapters/{chapterID}/editor.
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, chapterID, ok := h.editorKey(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Open(ws.UserID(), storyID, chapterID, ws)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEditorState(s.State()))
}

// State handles GET /api/stories/{storyID}/chapters/{chapterID}/editor.
func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEditorState(s.State()))
}

// Type handles PUT /api/stories/{storyID}/chapters/{chapterID}/editor/content.
func (h *EditorHandler) Type(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req editorContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wc, err := s.Type(req.Content)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"wordCount": wc})
}

// SetTitle handles PUT /api/stories/{storyID}/chapters/{chapterID}/editor/title.
func (h *EditorHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req editorTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetTitle(req.Title); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetStatus handles PUT /api/stories/{storyID}/chapters/{chapterID}/editor/status.
func (h *EditorHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req editorStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetStatus(domain.ChapterStatus(req.Status)); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Save handles POST /api/stories/{storyID}/chapters/{chapterID}/editor/save.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Save(r.Context()); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEditorState(s.State()))
}

// Close handles DELETE /api/stories/{storyID}/chapters/{chapterID}/editor.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	storyID, chapterID, ok := h.editorKey(w, r)
	if !ok {
		return
	}
	h.sessions.Close(userID, storyID, chapterID)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves an already-open editor session from the path.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	storyID, chapterID, ok := h.editorKey(w, r)
	if !ok {
		return nil, false
	}
	s := h.sessions.Get(userID, storyID, chapterID)
	if s == nil {
		writeError(w, http.StatusNotFound, "no open editor session")
		return nil, false
	}
	return s, true
}

// editorKey parses the story and chapter path segments; "new" maps to a nil
// chapter ID.
func (h *EditorHandler) editorKey(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return uuid.Nil, uuid.Nil, false
	}
	raw := r.PathValue("chapterID")
	if raw == "new" {
		return storyID, uuid.Nil, true
	}
	chapterID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return uuid.Nil, uuid.Nil, false
	}
	return storyID, chapterID, true
}

func toEditorState(s editor.State) editorStateResponse {
	resp := editorStateResponse{
		StoryID:   s.StoryID.String(),
		New:       s.New,
		Title:     s.Title,
		Content:   s.Content,
		Status:    s.Status.String(),
		WordCount: s.WordCount,
		Closed:    s.Closed,
	}
	if s.ChapterID != uuid.Nil {
		resp.ChapterID = s.ChapterID.String()
	}
	if !s.LastSaved.IsZero() {
		ls := s.LastSaved
		resp.LastSaved = &ls
	}
	return resp
}

func (h *EditorHandler) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, editor.ErrClosed) {
		writeError(w, http.StatusGone, "editor session closed")
		return
	}
	handleError(h.log, w, r, err)
}
