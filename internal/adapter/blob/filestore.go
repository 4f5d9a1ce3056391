// Package blob stores uploaded cover images on the local filesystem. Files
// are keyed by `<user_id>/<unix-ts>.<ext>` and served back through a public
// base path configured alongside the storage directory.
package blob

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/storylabhq/storylab-backend/internal/config"
	"github.com/storylabhq/storylab-backend/internal/domain"
)

// extByType maps the accepted image content types to their file extensions.
var extByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// CoverStore writes cover images under a base directory.
type CoverStore struct {
	dir        string
	publicBase string
	maxSize    int64
}

// NewCoverStore creates the base directory if needed.
func NewCoverStore(cfg config.UploadConfig) (*CoverStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create base dir: %w", err)
	}
	return &CoverStore{
		dir:        cfg.Dir,
		publicBase: cfg.PublicBase,
		maxSize:    cfg.MaxSizeBytes,
	}, nil
}

// MaxSize returns the configured upload size limit in bytes.
func (s *CoverStore) MaxSize() int64 {
	return s.maxSize
}

// Accepts reports whether the content type is an accepted image type.
func (s *CoverStore) Accepts(contentType string) bool {
	_, ok := extByType[contentType]
	return ok
}

// Save stores the image and returns its public URL. The write goes through a
// temp file and a rename so a partially written file is never visible under
// its final name.
func (s *CoverStore) Save(userID uuid.UUID, contentType string, content io.Reader) (string, error) {
	ext, ok := extByType[contentType]
	if !ok {
		return "", fmt.Errorf("blob: content type %q: %w", contentType, domain.ErrValidation)
	}

	userDir := filepath.Join(s.dir, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("blob: create user dir: %w", err)
	}

	name := strconv.FormatInt(time.Now().Unix(), 10) + "." + ext
	fullPath := filepath.Join(userDir, name)
	tempPath := fullPath + ".tmp"

	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("blob: create temp file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(content, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("blob: write: %w", err)
	}
	if written > s.maxSize {
		os.Remove(tempPath)
		return "", fmt.Errorf("blob: file exceeds %d bytes: %w", s.maxSize, domain.ErrValidation)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("blob: rename: %w", err)
	}

	return path.Join(s.publicBase, userID.String(), name), nil
}
