package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/store"
)

// StoriesHandler serves story and chapter REST endpoints.
type StoriesHandler struct {
	stores workspaceResolver
	log    *slog.Logger
}

// NewStoriesHandler creates a StoriesHandler.
func NewStoriesHandler(stores workspaceResolver, logger *slog.Logger) *StoriesHandler {
	return &StoriesHandler{stores: stores, log: logger.With("handler", "stories")}
}

type storyCreateRequest struct {
	Title        string    `json:"title"`
	Genre        string    `json:"genre"`
	Synopsis     string    `json:"synopsis"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"startDate"`
	Notes        string    `json:"notes"`
	CharacterIDs []string  `json:"characterIds"`
}

type storyUpdateRequest struct {
	Title        *string    `json:"title"`
	Genre        *string    `json:"genre"`
	Synopsis     *string    `json:"synopsis"`
	Status       *string    `json:"status"`
	StartDate    *time.Time `json:"startDate"`
	Notes        *string    `json:"notes"`
	CharacterIDs *[]string  `json:"characterIds"`
}

type chapterCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type chapterUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

// List handles GET /api/stories.
func (h *StoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStoryResponses(ws.Stories()))
}

// Get handles GET /api/stories/{storyID}.
func (h *StoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	story, found := ws.StoryByID(storyID)
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, toStoryResponse(story))
}

// Create handles POST /api/stories.
func (h *StoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	var req storyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	characterIDs, err := parseIDs(req.CharacterIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	created, err := ws.AddStory(r.Context(), store.StoryInput{
		Title:        req.Title,
		Genre:        req.Genre,
		Synopsis:     req.Synopsis,
		Status:       domain.StoryStatus(req.Status),
		StartDate:    req.StartDate,
		Notes:        req.Notes,
		CharacterIDs: characterIDs,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	story, _ := ws.StoryByID(created.ID)
	writeJSON(w, http.StatusCreated, toStoryResponse(story))
}

// Update handles PATCH /api/stories/{storyID}.
func (h *StoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	var req storyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := domain.StoryUpdate{
		Title:     req.Title,
		Genre:     req.Genre,
		Synopsis:  req.Synopsis,
		StartDate: req.StartDate,
		Notes:     req.Notes,
	}
	if req.Status != nil {
		status := domain.StoryStatus(*req.Status)
		upd.Status = &status
	}
	if req.CharacterIDs != nil {
		ids, err := parseIDs(*req.CharacterIDs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid character id")
			return
		}
		upd.CharacterIDs = &ids
	}

	if _, err := ws.UpdateStory(r.Context(), storyID, upd); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	story, _ := ws.StoryByID(storyID)
	writeJSON(w, http.StatusOK, toStoryResponse(story))
}

// Delete handles DELETE /api/stories/{storyID}.
func (h *StoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	if err := ws.DeleteStory(r.Context(), storyID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateChapter handles POST /api/stories/{storyID}/chapters.
func (h *StoriesHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	var req chapterCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := ws.AddChapter(r.Context(), storyID, store.ChapterInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  domain.ChapterStatus(req.Status),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChapterResponse(*created))
}

// UpdateChapter handles PATCH /api/stories/{storyID}/chapters/{chapterID}.
func (h *StoriesHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	chapterID, ok := pathUUID(r, "chapterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	var req chapterUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := domain.ChapterUpdate{
		Title:   req.Title,
		Content: req.Content,
	}
	if req.Status != nil {
		status := domain.ChapterStatus(*req.Status)
		upd.Status = &status
	}

	updated, err := ws.UpdateChapter(r.Context(), storyID, chapterID, upd)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChapterResponse(*updated))
}

// DeleteChapter handles DELETE /api/stories/{storyID}/chapters/{chapterID}.
func (h *StoriesHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	chapterID, ok := pathUUID(r, "chapterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	if err := ws.DeleteChapter(r.Context(), storyID, chapterID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
