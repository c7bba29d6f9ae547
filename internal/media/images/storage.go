// Package images validates, stores and fingerprints uploaded recipe images.
package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrOutsideRoot is returned for stored paths that would resolve outside the media root.
var ErrOutsideRoot = errors.New("path escapes media root")

// Storage writes images below a media root. Paths handed in and out are
// relative to that root and use forward slashes, e.g. "uploads/receita/x.jpg".
// Safe for concurrent use.
type Storage struct {
	root   string
	subdir string
	mu     sync.Mutex
}

// NewStorage creates {root}/{subdir} if needed.
func NewStorage(root, subdir string) (*Storage, error) {
	if root == "" {
		return nil, errors.New("media root cannot be empty")
	}
	if subdir == "" {
		return nil, errors.New("subdirectory cannot be empty")
	}

	dir := filepath.Join(root, filepath.FromSlash(subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", subdir, err)
	}

	return &Storage{root: filepath.Clean(root), subdir: strings.Trim(subdir, "/")}, nil
}

// Root returns the filesystem directory media is served from.
func (s *Storage) Root() string { return s.root }

// RelPath returns the stored path for a file name inside the storage subdirectory.
func (s *Storage) RelPath(name string) string {
	return s.subdir + "/" + name
}

// Save writes data under rel. The file appears atomically: readers see either
// nothing or the complete image.
func (s *Storage) Save(rel string, data []byte) error {
	if len(data) == 0 {
		return errors.New("image data cannot be empty")
	}
	path, err := s.Path(rel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename image: %w", err)
	}
	return nil
}

// Exists reports whether a file is stored at rel.
func (s *Storage) Exists(rel string) bool {
	path, err := s.Path(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the file at rel. A missing file is not an error.
func (s *Storage) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	path, err := s.Path(rel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Path resolves rel to a filesystem path inside the media root.
func (s *Storage) Path(rel string) (string, error) {
	if rel == "" {
		return "", errors.New("path cannot be empty")
	}
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return path, nil
}
