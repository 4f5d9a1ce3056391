package rest

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/domain"
)

// coverStore is the blob storage surface for cover uploads.
type coverStore interface {
	MaxSize() int64
	Accepts(contentType string) bool
	Save(userID uuid.UUID, contentType string, content io.Reader) (string, error)
}

// UploadsHandler serves story cover image uploads.
type UploadsHandler struct {
	stores workspaceResolver
	covers coverStore
	log    *slog.Logger
}

// NewUploadsHandler creates an UploadsHandler.
func NewUploadsHandler(stores workspaceResolver, covers coverStore, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{stores: stores, covers: covers, log: logger.With("handler", "uploads")}
}

// UploadCover handles POST /api/stories/{storyID}/cover. The image arrives as
// the multipart field "cover"; its type is sniffed from the leading bytes,
// not trusted from the client's header.
func (h *UploadsHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(h.stores, h.log, w, r)
	if !ok {
		return
	}
	storyID, ok := pathUUID(r, "storyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}
	if _, found := ws.StoryByID(storyID); !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// multipart framing overhead on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, h.covers.MaxSize()+64*1024)
	file, _, err := r.FormFile("cover")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing cover file")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		writeError(w, http.StatusBadRequest, "unreadable cover file")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !h.covers.Accepts(contentType) {
		writeError(w, http.StatusUnsupportedMediaType, "cover must be a JPEG, PNG, WEBP or GIF image")
		return
	}

	url, err := h.covers.Save(ws.UserID(), contentType, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if _, err := ws.UpdateStory(r.Context(), storyID, domain.StoryUpdate{CoverImage: &url}); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"coverImage": url})
}
