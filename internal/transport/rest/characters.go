package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/storylabhq/storylab-backend/internal/domain"
	"github.com/storylabhq/storylab-backend/internal/store"
)

// CharactersHandler serves character REST endpoints.
type CharactersHandler struct {
	stores workspaceResolver
	log    *slog.Logger
}

// NewCharactersHandler creates a CharactersHandler.
func NewCharactersHandler(stores workspaceResolver, logger *slog.Logger) *CharactersHandler {
	return &CharactersHandler{stores: stores, log: logger.With("handler", "characters")}
}

type characterCreateRequest struct {
	Name                string   `json:"name"`
	Avatar              *string  `json:"avatar"`
	Age                 string   `json:"age"`
	PhysicalDescription string   `json:"physicalDescription"`
	Personality         string   `json:"personality"`
	Backstory           string   `json:"backstory"`
	Role                string   `json:"role"`
	Relationships       string   `json:"relationships"`
	StoryIDs            []string `json:"storyIds"`
}

type characterUpdateRequest struct {
	Name                *string   `json:"name"`
	Avatar              *string   `json:"avatar"`
	Age                 *string   `json:"age"`
	PhysicalDescription *string   `json:"physicalDescription"`
	Personality         *string   `json:"personality"`
	Backstory           *string   `json:"backstory"`
	Role                *string   `json:"role"`
	Relationships       *string   `json:"relationships"`
	StoryIDs            *[]string `json:"storyIds"`
}

// List handles GET /api/characters.
func (h *CharactersHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponses(ws.Characters()))
}

// Create handles POST /api/characters.
func (h *CharactersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	var req characterCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	storyIDs, err := parseIDs(req.StoryIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	created, err := ws.AddCharacter(r.Context(), store.CharacterInput{
		Name:                req.Name,
		Avatar:              req.Avatar,
		Age:                 req.Age,
		PhysicalDescription: req.PhysicalDescription,
		Personality:         req.Personality,
		Backstory:           req.Backstory,
		Role:                domain.CharacterRole(req.Role),
		Relationships:       req.Relationships,
		StoryIDs:            storyIDs,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	for _, c := range ws.Characters() {
		if c.ID == created.ID {
			writeJSON(w, http.StatusCreated, toCharacterResponse(c))
			return
		}
	}
	writeJSON(w, http.StatusCreated, toCharacterResponse(*created))
}

// Update handles PATCH /api/characters/{characterID}.
func (h *CharactersHandler) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	characterID, ok := pathUUID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	var req characterUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := domain.CharacterUpdate{
		Name:                req.Name,
		Avatar:              req.Avatar,
		Age:                 req.Age,
		PhysicalDescription: req.PhysicalDescription,
		Personality:         req.Personality,
		Backstory:           req.Backstory,
		Relationships:       req.Relationships,
	}
	if req.Role != nil {
		role := domain.CharacterRole(*req.Role)
		upd.Role = &role
	}
	if req.StoryIDs != nil {
		ids, err := parseIDs(*req.StoryIDs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid story id")
			return
		}
		upd.StoryIDs = &ids
	}

	if _, err := ws.UpdateCharacter(r.Context(), characterID, upd); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	for _, c := range ws.Characters() {
		if c.ID == characterID {
			writeJSON(w, http.StatusOK, toCharacterResponse(c))
			return
		}
	}
	writeError(w, http.StatusNotFound, "not found")
}

// Delete handles DELETE /api/characters/{characterID}.
func (h *CharactersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	characterID, ok := pathUUID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if err := ws.DeleteCharacter(r.Context(), characterID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unlink handles DELETE /api/stories/{storyID}/characters/{characterID}.
func (h *CharactersHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	characterID, ok := pathUUID(r, "characterID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if err := ws.UnlinkCharacter(r.Context(), storyID, characterID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
