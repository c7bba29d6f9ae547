package images

import (
	"context"
	"log/slog"

	"github.com/receitaapp/receita-server/internal/id"
)

// Upload is a validated image ready to be written.
type Upload struct {
	Path     string // relative to the media root
	BlurHash string
	data     []byte
}

// Uploader turns raw uploads into stored files named by a fresh UUID.
type Uploader struct {
	storage *Storage
	logger  *slog.Logger
}

// NewUploader creates an Uploader writing into storage.
func NewUploader(storage *Storage, logger *slog.Logger) *Uploader {
	return &Uploader{storage: storage, logger: logger}
}

// Prepare validates data and picks its stored path. Nothing touches disk yet.
func (u *Uploader) Prepare(filename string, data []byte) (*Upload, error) {
	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}

	hash, err := BlurHash(decoded.Image)
	if err != nil {
		u.logger.Warn("blurhash failed, storing image without placeholder", "error", err)
		hash = ""
	}

	name := id.Filename(Extension(filename, decoded.Format))
	return &Upload{Path: u.storage.RelPath(name), BlurHash: hash, data: data}, nil
}

// Write stores a prepared upload.
func (u *Uploader) Write(_ context.Context, up *Upload) error {
	return u.storage.Save(up.Path, up.data)
}

// Remove deletes a stored image, logging rather than failing: by the time it
// runs the database no longer references the file.
func (u *Uploader) Remove(path string) {
	if path == "" {
		return
	}
	if err := u.storage.Delete(path); err != nil {
		u.logger.Warn("failed to remove image file", "path", path, "error", err)
	}
}
