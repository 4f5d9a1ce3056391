package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/store"
)

// NotesHandler serves note REST endpoints.
type NotesHandler struct {
	stores workspaceResolver
	log    *slog.Logger
}

// NewNotesHandler creates a NotesHandler.
func NewNotesHandler(stores workspaceResolver, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{stores: stores, log: logger.With("handler", "notes")}
}

type noteCreateRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type noteUpdateRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// List handles GET /api/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponses(ws.Notes()))
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	var req noteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := ws.AddNote(r.Context(), store.NoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(*created))
}

// Update handles PATCH /api/notes/{noteID}.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	noteID, ok := pathUUID(r, "noteID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	var req noteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := ws.UpdateNote(r.Context(), noteID, domain.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(*updated))
}

// Delete handles DELETE /api/notes/{noteID}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	noteID, ok := pathUUID(r, "noteID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	if err := ws.DeleteNote(r.Context(), noteID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
