package api

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/ekklesia/internal/services"
)

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// photoStorage keeps member photos as flat files served under /uploads/.
type photoStorage struct {
	dir string
}

func (handler *Handler) photos() photoStorage {
	return photoStorage{dir: handler.uploadsDir}
}

func (storage photoStorage) save(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExtensions[extension] {
		return "", fmt.Errorf("%w: photo must be a jpg, png, webp or gif image", services.ErrValidation)
	}
	if file.Size > maxPhotoBytes {
		return "", fmt.Errorf("%w: photo exceeds %d bytes", services.ErrValidation, maxPhotoBytes)
	}
	if strings.TrimSpace(storage.dir) == "" {
		return "", fmt.Errorf("%w: uploads directory is not configured", services.ErrStoreUnavailable)
	}
	if err := os.MkdirAll(storage.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create uploads directory: %v", services.ErrStoreUnavailable, err)
	}

	source, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: read upload", services.ErrValidation)
	}
	defer source.Close()

	name := uuid.NewString() + extension
	target, err := os.OpenFile(filepath.Join(storage.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create photo file: %v", services.ErrStoreUnavailable, err)
	}
	written, copyErr := io.Copy(target, io.LimitReader(source, maxPhotoBytes+1))
	closeErr := target.Close()
	if copyErr != nil || closeErr != nil || written > maxPhotoBytes {
		storage.removeFile(name)
		if written > maxPhotoBytes {
			return "", fmt.Errorf("%w: photo exceeds %d bytes", services.ErrValidation, maxPhotoBytes)
		}
		return "", fmt.Errorf("%w: write photo file", services.ErrStoreUnavailable)
	}
	return uploadsURLPrefix + name, nil
}

// remove deletes a previously stored photo. URLs outside /uploads/ are
// ignored, as are missing files.
func (storage photoStorage) remove(photoURL string) {
	name, ok := strings.CutPrefix(photoURL, uploadsURLPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return
	}
	storage.removeFile(name)
}

func (storage photoStorage) removeFile(name string) {
	if strings.TrimSpace(storage.dir) == "" {
		return
	}
	if err := os.Remove(filepath.Join(storage.dir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove photo file failed", "file", name, "error", err)
	}
}
