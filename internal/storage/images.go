package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/logger"
)

// Subdirectory of the media root holding recipe images. The default
// placeholder lives at recetas_pics/default.png inside the media root.
const recipeImageDir = "recetas_pics"

// ErrUnsupportedImage is returned for uploads that are not a known image type.
var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageStore persists uploaded recipe images under a local media root and
// hands back paths relative to it.
type ImageStore struct {
	root string
}

// NewImageStore creates an ImageStore rooted at dir, creating the recipe
// image directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, recipeImageDir), 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{root: dir}, nil
}

// Save writes the uploaded file under the recipe image directory with a
// generated name and returns its media-relative path.
func (s *ImageStore) Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		logger.Log.Warnw("rejected image upload", "filename", header.Filename)
		return "", ErrUnsupportedImage
	}

	name := uuid.NewString() + ext
	relPath := path.Join(recipeImageDir, name)
	dstPath := filepath.Join(s.root, recipeImageDir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Log.Errorw("failed to create image file", "path", dstPath, "error", err)
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)

	logger.Log.Infow(
		"path", relPath,
		"size", written,
		"error", err,
	)

	if err != nil {
		os.Remove(dstPath)
		return "", err
	}

	return relPath, nil
}

// Root returns the media root directory, for serving files over HTTP.
func (s *ImageStore) Root() string {
	return s.root
}
